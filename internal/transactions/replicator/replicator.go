// Package replicator keeps the local catalog replicas fresh. Each replica
// kind is synced on its own: the full collection is fetched from the catalog
// service and upserted in a single transaction, so readers either see the
// previous snapshot or the new one. A per-kind binary lock skips a pass that
// would overlap a still-running one.
package replicator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/smakki/FinanceManager-sub000/internal/platform/database"
	txnmetrics "github.com/smakki/FinanceManager-sub000/internal/transactions/metrics"
	"github.com/smakki/FinanceManager-sub000/internal/transactions/models"
)

// Kind names one replicated catalog collection.
type Kind string

const (
	KindHolders      Kind = "holders"
	KindAccounts     Kind = "accounts"
	KindAccountTypes Kind = "account_types"
	KindCategories   Kind = "categories"
	KindCurrencies   Kind = "currencies"
)

// AllKinds lists every replica kind in sync order.
func AllKinds() []Kind {
	return []Kind{KindHolders, KindAccounts, KindAccountTypes, KindCategories, KindCurrencies}
}

// ParseKinds maps kind names to Kinds, rejecting unknown names.
func ParseKinds(names []string) ([]Kind, error) {
	kinds := make([]Kind, 0, len(names))
	for _, name := range names {
		kind := Kind(name)
		switch kind {
		case KindHolders, KindAccounts, KindAccountTypes, KindCategories, KindCurrencies:
			kinds = append(kinds, kind)
		default:
			return nil, fmt.Errorf("unknown replica kind %q", name)
		}
	}
	return kinds, nil
}

// ErrSyncInProgress reports that a pass for the kind was skipped because the
// previous one is still running.
var ErrSyncInProgress = errors.New("sync already in progress")

// Fetcher retrieves complete catalog collections, deleted and archived rows
// included. The HTTP client implements it; tests substitute a mock.
type Fetcher interface {
	FetchHolders(ctx context.Context) ([]*models.HolderReplica, error)
	FetchAccounts(ctx context.Context) ([]*models.AccountReplica, error)
	FetchAccountTypes(ctx context.Context) ([]*models.AccountTypeReplica, error)
	FetchCategories(ctx context.Context) ([]*models.CategoryReplica, error)
	FetchCurrencies(ctx context.Context) ([]*models.CurrencyReplica, error)
}

// ReplicaWriter is the write side of the replica store.
type ReplicaWriter interface {
	UpsertHolders(ctx context.Context, records []*models.HolderReplica) error
	UpsertAccounts(ctx context.Context, records []*models.AccountReplica) error
	UpsertAccountTypes(ctx context.Context, records []*models.AccountTypeReplica) error
	UpsertCategories(ctx context.Context, records []*models.CategoryReplica) error
	UpsertCurrencies(ctx context.Context, records []*models.CurrencyReplica) error
}

// StoreTx runs a function inside one unit of work.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

const defaultInterval = time.Hour

type replicatorConfig struct {
	logger   *slog.Logger
	metrics  *txnmetrics.Metrics
	tx       StoreTx
	interval time.Duration
	kinds    []Kind
}

type Option func(cfg *replicatorConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *replicatorConfig) {
		cfg.logger = logger
	}
}

func WithMetrics(m *txnmetrics.Metrics) Option {
	return func(cfg *replicatorConfig) {
		cfg.metrics = m
	}
}

// WithTx supplies the unit-of-work runner. Required for Postgres-backed
// stores; defaults to the in-memory runner otherwise.
func WithTx(tx StoreTx) Option {
	return func(cfg *replicatorConfig) {
		cfg.tx = tx
	}
}

// WithInterval sets the delay between full sync passes. Defaults to an hour.
func WithInterval(interval time.Duration) Option {
	return func(cfg *replicatorConfig) {
		if interval > 0 {
			cfg.interval = interval
		}
	}
}

// WithKinds restricts scheduled passes to the given kinds. Defaults to all.
// SyncKind still accepts any kind regardless.
func WithKinds(kinds ...Kind) Option {
	return func(cfg *replicatorConfig) {
		if len(kinds) > 0 {
			cfg.kinds = kinds
		}
	}
}

// Replicator runs the sync passes.
type Replicator struct {
	fetcher  Fetcher
	writer   ReplicaWriter
	tx       StoreTx
	logger   *slog.Logger
	metrics  *txnmetrics.Metrics
	interval time.Duration
	kinds    []Kind
	locks    map[Kind]*semaphore.Weighted
}

func New(fetcher Fetcher, writer ReplicaWriter, opts ...Option) *Replicator {
	cfg := &replicatorConfig{interval: defaultInterval, kinds: AllKinds()}
	for _, opt := range opts {
		opt(cfg)
	}
	tx := cfg.tx
	if tx == nil {
		tx = database.NewInMemoryTxRunner()
	}
	locks := make(map[Kind]*semaphore.Weighted, len(AllKinds()))
	for _, kind := range AllKinds() {
		locks[kind] = semaphore.NewWeighted(1)
	}
	return &Replicator{
		fetcher:  fetcher,
		writer:   writer,
		tx:       tx,
		logger:   cfg.logger,
		metrics:  cfg.metrics,
		interval: cfg.interval,
		kinds:    cfg.kinds,
		locks:    locks,
	}
}

// SyncKind fetches one kind's full collection and upserts it in a single
// transaction. When the previous pass for the kind is still running, the
// call returns ErrSyncInProgress without fetching anything. Returns the
// number of records written.
func (r *Replicator) SyncKind(ctx context.Context, kind Kind) (int, error) {
	lock, ok := r.locks[kind]
	if !ok {
		return 0, fmt.Errorf("unknown replica kind %q", kind)
	}
	if !lock.TryAcquire(1) {
		if r.logger != nil {
			r.logger.DebugContext(ctx, "sync skipped, previous pass still running", "kind", kind)
		}
		r.observeSync(kind, txnmetrics.SyncSkipped, 0, time.Now())
		return 0, ErrSyncInProgress
	}
	defer lock.Release(1)

	start := time.Now()
	var records int
	var err error
	switch kind {
	case KindHolders:
		records, err = r.syncHolders(ctx)
	case KindAccounts:
		records, err = r.syncAccounts(ctx)
	case KindAccountTypes:
		records, err = r.syncAccountTypes(ctx)
	case KindCategories:
		records, err = r.syncCategories(ctx)
	case KindCurrencies:
		records, err = r.syncCurrencies(ctx)
	}
	if err != nil {
		r.observeSync(kind, txnmetrics.SyncFailure, 0, start)
		if r.logger != nil {
			r.logger.ErrorContext(ctx, "sync pass failed", "kind", kind, "error", err.Error())
		}
		return 0, fmt.Errorf("sync %s: %w", kind, err)
	}
	r.observeSync(kind, txnmetrics.SyncSuccess, records, start)
	if r.logger != nil {
		r.logger.InfoContext(ctx, "sync pass completed",
			"kind", kind, "records", records, "duration", time.Since(start).String())
	}
	return records, nil
}

// SyncAll runs every configured kind in order. A failed kind does not stop
// the others; skipped kinds are not failures. The joined per-kind errors are
// returned.
func (r *Replicator) SyncAll(ctx context.Context) error {
	var errs []error
	for _, kind := range r.kinds {
		if _, err := r.SyncKind(ctx, kind); err != nil && !errors.Is(err, ErrSyncInProgress) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Run syncs once at startup and then on every tick until the context ends.
// Failures are logged and the loop keeps going; a catalog outage must not
// take the scheduler down with it.
func (r *Replicator) Run(ctx context.Context) error {
	if err := r.SyncAll(ctx); err != nil && r.logger != nil {
		r.logger.ErrorContext(ctx, "initial sync incomplete", "error", err.Error())
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := r.SyncAll(ctx); err != nil && r.logger != nil {
				r.logger.ErrorContext(ctx, "sync incomplete", "error", err.Error())
			}
		}
	}
}

func (r *Replicator) syncHolders(ctx context.Context) (int, error) {
	records, err := r.fetcher.FetchHolders(ctx)
	if err != nil {
		return 0, err
	}
	if err := r.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return r.writer.UpsertHolders(txCtx, records)
	}); err != nil {
		return 0, err
	}
	return len(records), nil
}

func (r *Replicator) syncAccounts(ctx context.Context) (int, error) {
	records, err := r.fetcher.FetchAccounts(ctx)
	if err != nil {
		return 0, err
	}
	if err := r.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return r.writer.UpsertAccounts(txCtx, records)
	}); err != nil {
		return 0, err
	}
	return len(records), nil
}

func (r *Replicator) syncAccountTypes(ctx context.Context) (int, error) {
	records, err := r.fetcher.FetchAccountTypes(ctx)
	if err != nil {
		return 0, err
	}
	if err := r.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return r.writer.UpsertAccountTypes(txCtx, records)
	}); err != nil {
		return 0, err
	}
	return len(records), nil
}

func (r *Replicator) syncCategories(ctx context.Context) (int, error) {
	records, err := r.fetcher.FetchCategories(ctx)
	if err != nil {
		return 0, err
	}
	if err := r.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return r.writer.UpsertCategories(txCtx, records)
	}); err != nil {
		return 0, err
	}
	return len(records), nil
}

func (r *Replicator) syncCurrencies(ctx context.Context) (int, error) {
	records, err := r.fetcher.FetchCurrencies(ctx)
	if err != nil {
		return 0, err
	}
	if err := r.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return r.writer.UpsertCurrencies(txCtx, records)
	}); err != nil {
		return 0, err
	}
	return len(records), nil
}

func (r *Replicator) observeSync(kind Kind, status string, records int, start time.Time) {
	if r.metrics != nil {
		r.metrics.ObserveSyncRun(string(kind), status, records, start)
	}
}
