// Package service implements the transactions-service business rules:
// non-zero amounts, distinct transfer sides, and reference checks against
// the catalog replicas the sync job maintains. Handlers call services;
// services call stores; the replicas are read-only here.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/smakki/FinanceManager-sub000/internal/platform/database"
	txnmetrics "github.com/smakki/FinanceManager-sub000/internal/transactions/metrics"
	"github.com/smakki/FinanceManager-sub000/internal/transactions/models"
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	dErrors "github.com/smakki/FinanceManager-sub000/pkg/domain-errors"
	"github.com/smakki/FinanceManager-sub000/pkg/platform/sentinel"
	"github.com/smakki/FinanceManager-sub000/pkg/requestcontext"
)

type TransactionStore interface {
	Create(ctx context.Context, t *models.Transaction) error
	FindByID(ctx context.Context, transactionID id.TransactionID) (*models.Transaction, error)
	List(ctx context.Context, filter models.TransactionFilter) ([]*models.Transaction, error)
	Update(ctx context.Context, t *models.Transaction) error
	Delete(ctx context.Context, transactionID id.TransactionID) error
	Execute(ctx context.Context, transactionID id.TransactionID, validate func(*models.Transaction) error, mutate func(*models.Transaction)) (*models.Transaction, error)
}

type TransferStore interface {
	Create(ctx context.Context, t *models.Transfer) error
	FindByID(ctx context.Context, transferID id.TransferID) (*models.Transfer, error)
	List(ctx context.Context, filter models.TransferFilter) ([]*models.Transfer, error)
	Update(ctx context.Context, t *models.Transfer) error
	Delete(ctx context.Context, transferID id.TransferID) error
	Execute(ctx context.Context, transferID id.TransferID, validate func(*models.Transfer) error, mutate func(*models.Transfer)) (*models.Transfer, error)
}

// ReplicaStore is the read side of the catalog replicas. The request path
// validates account and category references against it.
type ReplicaStore interface {
	FindAccount(ctx context.Context, accountID id.AccountID) (*models.AccountReplica, error)
	FindCategory(ctx context.Context, categoryID id.CategoryID) (*models.CategoryReplica, error)
	Counts(ctx context.Context) (map[string]int, error)
}

// StoreTx runs a function inside one unit of work. Postgres wiring commits
// or rolls back a real transaction; the in-memory runner only serializes.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

// Stores bundles the stores the transactions service orchestrates.
type Stores struct {
	Transactions TransactionStore
	Transfers    TransferStore
	Replicas     ReplicaStore
}

type serviceConfig struct {
	logger  *slog.Logger
	metrics *txnmetrics.Metrics
	tx      StoreTx
}

type Option func(cfg *serviceConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *serviceConfig) {
		cfg.logger = logger
	}
}

func WithMetrics(m *txnmetrics.Metrics) Option {
	return func(cfg *serviceConfig) {
		cfg.metrics = m
	}
}

// WithTx supplies the unit-of-work runner. Required for Postgres-backed
// stores; defaults to the in-memory runner otherwise.
func WithTx(tx StoreTx) Option {
	return func(cfg *serviceConfig) {
		cfg.tx = tx
	}
}

// Service orchestrates transactions and transfers against the local stores
// and the catalog replicas.
type Service struct {
	transactions TransactionStore
	transfers    TransferStore
	replicas     ReplicaStore
	logger       *slog.Logger
	metrics      *txnmetrics.Metrics
	tx           StoreTx
}

func New(stores Stores, opts ...Option) *Service {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	tx := cfg.tx
	if tx == nil {
		tx = database.NewInMemoryTxRunner()
	}
	return &Service{
		transactions: stores.Transactions,
		transfers:    stores.Transfers,
		replicas:     stores.Replicas,
		logger:       cfg.logger,
		metrics:      cfg.metrics,
		tx:           tx,
	}
}

// ReplicaCounts reports how many rows each replica kind holds locally. The
// sync status endpoint uses it to show how much catalog data has arrived.
func (s *Service) ReplicaCounts(ctx context.Context) (map[string]int, error) {
	counts, err := s.replicas.Counts(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count replicas")
	}
	return counts, nil
}

// checkAccountUsable verifies the account is known locally and neither
// archived nor deleted. A missing replica row reads as not found: either the
// account does not exist upstream or the sync has not delivered it yet.
func (s *Service) checkAccountUsable(ctx context.Context, accountID id.AccountID) error {
	account, err := s.replicas.FindAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.ErrAccountNotFound(accountID)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load account replica")
	}
	if !account.Usable() {
		return models.ErrAccountNotUsable(accountID)
	}
	return nil
}

// checkCategoryUsable verifies the category is known locally and not deleted.
func (s *Service) checkCategoryUsable(ctx context.Context, categoryID id.CategoryID) error {
	category, err := s.replicas.FindCategory(ctx, categoryID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.ErrCategoryNotFound(categoryID)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load category replica")
	}
	if category.IsDeleted {
		return models.ErrCategoryNotUsable(categoryID)
	}
	return nil
}

func (s *Service) logEvent(ctx context.Context, event string, attributes ...any) {
	if s.logger == nil {
		return
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	s.logger.InfoContext(ctx, event, attributes...)
}
