package transfer

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/smakki/FinanceManager-sub000/internal/transactions/models"
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	"github.com/smakki/FinanceManager-sub000/pkg/platform/sentinel"
)

type TransferStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *TransferStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestTransferStoreSuite(t *testing.T) {
	suite.Run(t, new(TransferStoreSuite))
}

func (s *TransferStoreSuite) newTransfer(date time.Time) *models.Transfer {
	now := time.Now()
	return &models.Transfer{
		ID:            id.NewTransferID(),
		FromAccountID: id.NewAccountID(),
		ToAccountID:   id.NewAccountID(),
		FromAmount:    decimal.RequireFromString("100"),
		ToAmount:      decimal.RequireFromString("1.08"),
		Date:          date,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (s *TransferStoreSuite) day(dayOfMonth int) time.Time {
	return time.Date(2025, 4, dayOfMonth, 0, 0, 0, 0, time.UTC)
}

// TestCreationAndLookups verifies the store creates and retrieves transfers.
func (s *TransferStoreSuite) TestCreationAndLookups() {
	t := s.newTransfer(s.day(1))
	s.Require().NoError(s.store.Create(s.ctx, t))

	found, err := s.store.FindByID(s.ctx, t.ID)
	s.Require().NoError(err)
	s.Equal(t.FromAccountID, found.FromAccountID)
	s.True(found.ToAmount.Equal(t.ToAmount))

	_, err = s.store.FindByID(s.ctx, id.NewTransferID())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

// TestAccountFilterMatchesEitherSide verifies the account filter catches a
// transfer whether the account is the source or the destination.
func (s *TransferStoreSuite) TestAccountFilterMatchesEitherSide() {
	account := id.NewAccountID()

	outgoing := s.newTransfer(s.day(2))
	outgoing.FromAccountID = account
	incoming := s.newTransfer(s.day(3))
	incoming.ToAccountID = account
	unrelated := s.newTransfer(s.day(4))
	for _, t := range []*models.Transfer{outgoing, incoming, unrelated} {
		s.Require().NoError(s.store.Create(s.ctx, t))
	}

	list, err := s.store.List(s.ctx, models.TransferFilter{AccountID: &account})
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(outgoing.ID, list[0].ID)
	s.Equal(incoming.ID, list[1].ID)
}

// TestListFilters verifies date-range and deletion filters with paging.
func (s *TransferStoreSuite) TestListFilters() {
	for _, dayOfMonth := range []int{1, 3, 5, 7} {
		s.Require().NoError(s.store.Create(s.ctx, s.newTransfer(s.day(dayOfMonth))))
	}
	deleted := s.newTransfer(s.day(9))
	deleted.IsDeleted = true
	s.Require().NoError(s.store.Create(s.ctx, deleted))

	s.Run("date range is inclusive on both ends", func() {
		from, to := s.day(3), s.day(5)
		list, err := s.store.List(s.ctx, models.TransferFilter{From: &from, To: &to})
		s.Require().NoError(err)
		s.Require().Len(list, 2)
		s.Equal(s.day(3), list[0].Date)
		s.Equal(s.day(5), list[1].Date)
	})

	s.Run("excludes soft-deleted by default", func() {
		list, err := s.store.List(s.ctx, models.TransferFilter{})
		s.Require().NoError(err)
		s.Len(list, 4)
	})

	s.Run("includes soft-deleted on request", func() {
		list, err := s.store.List(s.ctx, models.TransferFilter{IncludeDeleted: true})
		s.Require().NoError(err)
		s.Len(list, 5)
	})

	s.Run("pages in date order", func() {
		page2, err := s.store.List(s.ctx, models.TransferFilter{Page: id.PageParams{Page: 2, ItemsPerPage: 3}})
		s.Require().NoError(err)
		s.Require().Len(page2, 1)
		s.Equal(s.day(7), page2[0].Date)
	})
}

// TestUpdate verifies full-row replacement.
func (s *TransferStoreSuite) TestUpdate() {
	t := s.newTransfer(s.day(1))
	s.Require().NoError(s.store.Create(s.ctx, t))

	t.ToAmount = decimal.RequireFromString("1.10")
	t.Comment = "better rate"
	s.Require().NoError(s.store.Update(s.ctx, t))

	found, err := s.store.FindByID(s.ctx, t.ID)
	s.Require().NoError(err)
	s.True(found.ToAmount.Equal(decimal.RequireFromString("1.10")))
	s.Equal("better rate", found.Comment)

	s.Require().ErrorIs(s.store.Update(s.ctx, s.newTransfer(s.day(1))), sentinel.ErrNotFound)
}

// TestExecute verifies the atomic validate-then-mutate path.
func (s *TransferStoreSuite) TestExecute() {
	s.Run("applies mutation when validation passes", func() {
		t := s.newTransfer(s.day(1))
		s.Require().NoError(s.store.Create(s.ctx, t))

		now := time.Now()
		updated, err := s.store.Execute(s.ctx, t.ID,
			func(*models.Transfer) error { return nil },
			func(m *models.Transfer) { m.ApplySoftDelete(now) },
		)
		s.Require().NoError(err)
		s.True(updated.IsDeleted)
	})

	s.Run("leaves the row untouched when validation fails", func() {
		t := s.newTransfer(s.day(2))
		s.Require().NoError(s.store.Create(s.ctx, t))

		_, err := s.store.Execute(s.ctx, t.ID,
			func(*models.Transfer) error { return sentinel.ErrInvalidState },
			func(m *models.Transfer) { m.IsDeleted = true },
		)
		s.Require().ErrorIs(err, sentinel.ErrInvalidState)

		found, err := s.store.FindByID(s.ctx, t.ID)
		s.Require().NoError(err)
		s.False(found.IsDeleted)
	})

	s.Run("returns ErrNotFound for unknown transfer", func() {
		_, err := s.store.Execute(s.ctx, id.NewTransferID(),
			func(*models.Transfer) error { return nil },
			func(*models.Transfer) {},
		)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

// TestDelete verifies hard deletion.
func (s *TransferStoreSuite) TestDelete() {
	t := s.newTransfer(s.day(1))
	s.Require().NoError(s.store.Create(s.ctx, t))

	s.Require().NoError(s.store.Delete(s.ctx, t.ID))
	_, err := s.store.FindByID(s.ctx, t.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	s.Require().ErrorIs(s.store.Delete(s.ctx, t.ID), sentinel.ErrNotFound)
}

// TestCopySemantics verifies callers cannot mutate stored state through
// returned pointers.
func (s *TransferStoreSuite) TestCopySemantics() {
	t := s.newTransfer(s.day(1))
	t.Comment = "original"
	s.Require().NoError(s.store.Create(s.ctx, t))

	found, err := s.store.FindByID(s.ctx, t.ID)
	s.Require().NoError(err)
	found.Comment = "tampered"

	again, err := s.store.FindByID(s.ctx, t.ID)
	s.Require().NoError(err)
	s.Equal("original", again.Comment)
}
