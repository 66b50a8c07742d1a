// Package service implements the catalog's business rules on top of the
// per-entity stores: uniqueness checks, referential validity, delete guards
// and the single-default-account invariant. Handlers call services; services
// call stores; stores never call each other.
package service

import (
	"context"
	"log/slog"
	"time"

	catalogmetrics "github.com/smakki/FinanceManager-sub000/internal/catalog/metrics"
	"github.com/smakki/FinanceManager-sub000/internal/catalog/models"
	"github.com/smakki/FinanceManager-sub000/internal/platform/database"
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	"github.com/smakki/FinanceManager-sub000/pkg/requestcontext"
)

type HolderStore interface {
	Create(ctx context.Context, h *models.RegistryHolder) error
	FindByID(ctx context.Context, holderID id.HolderID) (*models.RegistryHolder, error)
	FindByTelegramID(ctx context.Context, telegramID int64) (*models.RegistryHolder, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.RegistryHolder, error)
	Update(ctx context.Context, h *models.RegistryHolder) error
	Delete(ctx context.Context, holderID id.HolderID) error
	Execute(ctx context.Context, holderID id.HolderID, validate func(*models.RegistryHolder) error, mutate func(*models.RegistryHolder)) (*models.RegistryHolder, error)
}

type CountryStore interface {
	Create(ctx context.Context, c *models.Country) error
	FindByID(ctx context.Context, countryID id.CountryID) (*models.Country, error)
	FindByName(ctx context.Context, name string) (*models.Country, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.Country, error)
	Update(ctx context.Context, c *models.Country) error
	Delete(ctx context.Context, countryID id.CountryID) error
	Execute(ctx context.Context, countryID id.CountryID, validate func(*models.Country) error, mutate func(*models.Country)) (*models.Country, error)
}

type BankStore interface {
	Create(ctx context.Context, b *models.Bank) error
	FindByID(ctx context.Context, bankID id.BankID) (*models.Bank, error)
	FindByName(ctx context.Context, name string) (*models.Bank, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.Bank, error)
	Update(ctx context.Context, b *models.Bank) error
	Delete(ctx context.Context, bankID id.BankID) error
	CountByCountry(ctx context.Context, countryID id.CountryID) (int, error)
	Execute(ctx context.Context, bankID id.BankID, validate func(*models.Bank) error, mutate func(*models.Bank)) (*models.Bank, error)
}

type CurrencyStore interface {
	Create(ctx context.Context, c *models.Currency) error
	FindByID(ctx context.Context, currencyID id.CurrencyID) (*models.Currency, error)
	FindByCharCode(ctx context.Context, charCode string) (*models.Currency, error)
	FindByNumCode(ctx context.Context, numCode string) (*models.Currency, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.Currency, error)
	Update(ctx context.Context, c *models.Currency) error
	Delete(ctx context.Context, currencyID id.CurrencyID) error
	Execute(ctx context.Context, currencyID id.CurrencyID, validate func(*models.Currency) error, mutate func(*models.Currency)) (*models.Currency, error)
}

type AccountTypeStore interface {
	Create(ctx context.Context, t *models.AccountType) error
	FindByID(ctx context.Context, typeID id.AccountTypeID) (*models.AccountType, error)
	FindByCode(ctx context.Context, code string) (*models.AccountType, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.AccountType, error)
	Update(ctx context.Context, t *models.AccountType) error
	Delete(ctx context.Context, typeID id.AccountTypeID) error
	Execute(ctx context.Context, typeID id.AccountTypeID, validate func(*models.AccountType) error, mutate func(*models.AccountType)) (*models.AccountType, error)
}

type AccountStore interface {
	Create(ctx context.Context, a *models.Account) error
	FindByID(ctx context.Context, accountID id.AccountID) (*models.Account, error)
	FindDefaultForHolder(ctx context.Context, holderID id.HolderID) (*models.Account, error)
	List(ctx context.Context, filter models.AccountFilter) ([]*models.Account, error)
	Update(ctx context.Context, a *models.Account) error
	Delete(ctx context.Context, accountID id.AccountID) error
	CountByHolder(ctx context.Context, holderID id.HolderID) (int, error)
	CountByBank(ctx context.Context, bankID id.BankID) (int, error)
	CountByCurrency(ctx context.Context, currencyID id.CurrencyID) (int, error)
	CountByType(ctx context.Context, typeID id.AccountTypeID) (int, error)
	Execute(ctx context.Context, accountID id.AccountID, validate func(*models.Account) error, mutate func(*models.Account)) (*models.Account, error)
}

type CategoryStore interface {
	Create(ctx context.Context, c *models.Category) error
	FindByID(ctx context.Context, categoryID id.CategoryID) (*models.Category, error)
	FindByHolderParentName(ctx context.Context, holderID id.HolderID, parentID *id.CategoryID, name string) (*models.Category, error)
	List(ctx context.Context, filter models.CategoryFilter) ([]*models.Category, error)
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, categoryID id.CategoryID) error
	CountByHolder(ctx context.Context, holderID id.HolderID) (int, error)
	CountChildren(ctx context.Context, categoryID id.CategoryID) (int, error)
	Execute(ctx context.Context, categoryID id.CategoryID, validate func(*models.Category) error, mutate func(*models.Category)) (*models.Category, error)
}

type ExchangeRateStore interface {
	Create(ctx context.Context, r *models.ExchangeRate) error
	FindByID(ctx context.Context, rateID id.ExchangeRateID) (*models.ExchangeRate, error)
	FindByCurrencyAndDate(ctx context.Context, currencyID id.CurrencyID, date time.Time) (*models.ExchangeRate, error)
	List(ctx context.Context, filter models.ExchangeRateFilter) ([]*models.ExchangeRate, error)
	Update(ctx context.Context, r *models.ExchangeRate) error
	Delete(ctx context.Context, rateID id.ExchangeRateID) error
	CountByCurrency(ctx context.Context, currencyID id.CurrencyID) (int, error)
	Execute(ctx context.Context, rateID id.ExchangeRateID, validate func(*models.ExchangeRate) error, mutate func(*models.ExchangeRate)) (*models.ExchangeRate, error)
}

// StoreTx runs a function inside one unit of work. Postgres wiring commits
// or rolls back a real transaction; the in-memory runner only serializes.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

// Stores bundles the per-entity stores the catalog service orchestrates.
// Cross-entity invariants (delete guards, reference checks) are why one
// service owns all of them instead of one service per entity.
type Stores struct {
	Holders      HolderStore
	Countries    CountryStore
	Banks        BankStore
	Currencies   CurrencyStore
	AccountTypes AccountTypeStore
	Accounts     AccountStore
	Categories   CategoryStore
	Rates        ExchangeRateStore
}

type serviceConfig struct {
	logger  *slog.Logger
	metrics *catalogmetrics.Metrics
	tx      StoreTx
}

type Option func(cfg *serviceConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *serviceConfig) {
		cfg.logger = logger
	}
}

func WithMetrics(m *catalogmetrics.Metrics) Option {
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

// Service orchestrates the catalog: registry holders, reference data,
// accounts, categories and exchange rates.
type Service struct {
	holders      HolderStore
	countries    CountryStore
	banks        BankStore
	currencies   CurrencyStore
	accountTypes AccountTypeStore
	accounts     AccountStore
	categories   CategoryStore
	rates        ExchangeRateStore
	logger       *slog.Logger
	metrics      *catalogmetrics.Metrics
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
		holders:      stores.Holders,
		countries:    stores.Countries,
		banks:        stores.Banks,
		currencies:   stores.Currencies,
		accountTypes: stores.AccountTypes,
		accounts:     stores.Accounts,
		categories:   stores.Categories,
		rates:        stores.Rates,
		logger:       cfg.logger,
		metrics:      cfg.metrics,
		tx:           tx,
	}
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
