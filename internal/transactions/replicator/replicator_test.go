package replicator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/smakki/FinanceManager-sub000/internal/transactions/models"
	"github.com/smakki/FinanceManager-sub000/internal/transactions/replicator/mocks"
	replicastore "github.com/smakki/FinanceManager-sub000/internal/transactions/store/replica"
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
)

//go:generate mockgen -source=replicator.go -destination=mocks/mocks.go -package=mocks Fetcher,ReplicaWriter,StoreTx

// ReplicatorSuite runs sync passes with a mocked catalog and a real
// in-memory replica store, so the tests observe what actually lands.
type ReplicatorSuite struct {
	suite.Suite
	fetcher    *mocks.MockFetcher
	replicas   *replicastore.InMemory
	replicator *Replicator
	ctx        context.Context
}

func TestReplicatorSuite(t *testing.T) {
	suite.Run(t, new(ReplicatorSuite))
}

func (s *ReplicatorSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.T().Cleanup(ctrl.Finish)
	s.fetcher = mocks.NewMockFetcher(ctrl)
	s.replicas = replicastore.NewInMemory()
	s.replicator = New(s.fetcher, s.replicas)
	s.ctx = context.Background()
}

func (s *ReplicatorSuite) expectEmptyFetchesExcept(skip ...Kind) {
	skipped := make(map[Kind]bool, len(skip))
	for _, kind := range skip {
		skipped[kind] = true
	}
	if !skipped[KindHolders] {
		s.fetcher.EXPECT().FetchHolders(gomock.Any()).Return(nil, nil)
	}
	if !skipped[KindAccounts] {
		s.fetcher.EXPECT().FetchAccounts(gomock.Any()).Return(nil, nil)
	}
	if !skipped[KindAccountTypes] {
		s.fetcher.EXPECT().FetchAccountTypes(gomock.Any()).Return(nil, nil)
	}
	if !skipped[KindCategories] {
		s.fetcher.EXPECT().FetchCategories(gomock.Any()).Return(nil, nil)
	}
	if !skipped[KindCurrencies] {
		s.fetcher.EXPECT().FetchCurrencies(gomock.Any()).Return(nil, nil)
	}
}

func (s *ReplicatorSuite) TestSyncAllWritesEveryKind() {
	accountID := id.NewAccountID()
	categoryID := id.NewCategoryID()
	s.fetcher.EXPECT().FetchHolders(gomock.Any()).Return([]*models.HolderReplica{
		{ID: id.NewHolderID(), Name: "Ann", TelegramID: 100},
	}, nil)
	s.fetcher.EXPECT().FetchAccounts(gomock.Any()).Return([]*models.AccountReplica{
		{ID: accountID, Name: "Checking"},
		{ID: id.NewAccountID(), Name: "Archived", IsArchived: true},
	}, nil)
	s.fetcher.EXPECT().FetchAccountTypes(gomock.Any()).Return([]*models.AccountTypeReplica{
		{ID: id.NewAccountTypeID(), Code: "debit", Name: "Debit"},
	}, nil)
	s.fetcher.EXPECT().FetchCategories(gomock.Any()).Return([]*models.CategoryReplica{
		{ID: categoryID, Name: "Groceries"},
	}, nil)
	s.fetcher.EXPECT().FetchCurrencies(gomock.Any()).Return([]*models.CurrencyReplica{
		{ID: id.NewCurrencyID(), CharCode: "EUR", Name: "Euro"},
	}, nil)

	s.Require().NoError(s.replicator.SyncAll(s.ctx))

	counts, err := s.replicas.Counts(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, counts["holders"])
	s.Equal(2, counts["accounts"])
	s.Equal(1, counts["account_types"])
	s.Equal(1, counts["categories"])
	s.Equal(1, counts["currencies"])

	account, err := s.replicas.FindAccount(s.ctx, accountID)
	s.Require().NoError(err)
	s.Equal("Checking", account.Name)
}

func (s *ReplicatorSuite) TestFailedKindDoesNotStopOthers() {
	s.fetcher.EXPECT().FetchHolders(gomock.Any()).Return(nil, errors.New("catalog down"))
	s.fetcher.EXPECT().FetchAccounts(gomock.Any()).Return([]*models.AccountReplica{
		{ID: id.NewAccountID(), Name: "Checking"},
	}, nil)
	s.expectEmptyFetchesExcept(KindHolders, KindAccounts)

	err := s.replicator.SyncAll(s.ctx)
	s.Require().Error(err)
	s.Contains(err.Error(), "sync holders")

	counts, countErr := s.replicas.Counts(s.ctx)
	s.Require().NoError(countErr)
	s.Equal(0, counts["holders"])
	s.Equal(1, counts["accounts"])
}

func (s *ReplicatorSuite) TestSyncKindRepeatedRunsUpsert() {
	holderID := id.NewHolderID()
	s.fetcher.EXPECT().FetchHolders(gomock.Any()).Return([]*models.HolderReplica{
		{ID: holderID, Name: "Ann", TelegramID: 100},
	}, nil)
	records, err := s.replicator.SyncKind(s.ctx, KindHolders)
	s.Require().NoError(err)
	s.Equal(1, records)

	// The same row comes back renamed; the upsert must overwrite, not grow.
	s.fetcher.EXPECT().FetchHolders(gomock.Any()).Return([]*models.HolderReplica{
		{ID: holderID, Name: "Ann Smith", TelegramID: 100},
	}, nil)
	records, err = s.replicator.SyncKind(s.ctx, KindHolders)
	s.Require().NoError(err)
	s.Equal(1, records)

	counts, err := s.replicas.Counts(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, counts["holders"])
}

func (s *ReplicatorSuite) TestUnknownKindRejected() {
	_, err := s.replicator.SyncKind(s.ctx, Kind("bogus"))
	s.Require().Error(err)
	s.Contains(err.Error(), "unknown replica kind")
}

func (s *ReplicatorSuite) TestKindRestrictionLimitsSyncAll() {
	restricted := New(s.fetcher, s.replicas, WithKinds(KindAccounts, KindCategories))
	s.fetcher.EXPECT().FetchAccounts(gomock.Any()).Return([]*models.AccountReplica{
		{ID: id.NewAccountID(), Name: "Checking"},
	}, nil)
	s.fetcher.EXPECT().FetchCategories(gomock.Any()).Return(nil, nil)

	s.Require().NoError(restricted.SyncAll(s.ctx))

	counts, err := s.replicas.Counts(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, counts["accounts"])
	s.Equal(0, counts["holders"])
}

func (s *ReplicatorSuite) TestParseKinds() {
	kinds, err := ParseKinds([]string{"accounts", "currencies"})
	s.Require().NoError(err)
	s.Equal([]Kind{KindAccounts, KindCurrencies}, kinds)

	_, err = ParseKinds([]string{"accounts", "bogus"})
	s.Require().Error(err)
	s.Contains(err.Error(), "bogus")
}

func (s *ReplicatorSuite) TestOverlappingPassSkipped() {
	started := make(chan struct{})
	release := make(chan struct{})
	s.fetcher.EXPECT().FetchHolders(gomock.Any()).DoAndReturn(func(context.Context) ([]*models.HolderReplica, error) {
		close(started)
		<-release
		return nil, nil
	})

	done := make(chan error, 1)
	go func() {
		_, err := s.replicator.SyncKind(s.ctx, KindHolders)
		done <- err
	}()

	<-started
	_, err := s.replicator.SyncKind(s.ctx, KindHolders)
	s.Require().ErrorIs(err, ErrSyncInProgress)

	close(release)
	s.Require().NoError(<-done)
}

func (s *ReplicatorSuite) TestRunSyncsAtStartupAndStopsOnCancel() {
	s.fetcher.EXPECT().FetchHolders(gomock.Any()).Return([]*models.HolderReplica{
		{ID: id.NewHolderID(), Name: "Ann", TelegramID: 100},
	}, nil)
	s.expectEmptyFetchesExcept(KindHolders)

	replicator := New(s.fetcher, s.replicas, WithInterval(time.Hour))
	ctx, cancel := context.WithCancel(s.ctx)
	done := make(chan error, 1)
	go func() { done <- replicator.Run(ctx) }()

	s.Eventually(func() bool {
		counts, err := s.replicas.Counts(s.ctx)
		return err == nil && counts["holders"] == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	s.Require().NoError(<-done)
}
