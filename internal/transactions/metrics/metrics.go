package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Sync outcome labels.
const (
	SyncSuccess = "success"
	SyncFailure = "failure"
	SyncSkipped = "skipped"
)

// Metrics provides observability for the transactions module: write counters
// for the request path and per-kind counters for the catalog sync job.
type Metrics struct {
	TransactionsCreated prometheus.Counter
	TransfersCreated    prometheus.Counter
	SyncRuns            *prometheus.CounterVec
	SyncRecords         *prometheus.CounterVec
	SyncDuration        *prometheus.HistogramVec
}

// New creates a Metrics instance with all transactions metrics registered.
func New() *Metrics {
	return &Metrics{
		TransactionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "transactions_created_total",
			Help: "Total number of transactions created",
		}),
		TransfersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "transactions_transfers_created_total",
			Help: "Total number of transfers created",
		}),
		SyncRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "transactions_catalog_sync_runs_total",
			Help: "Catalog sync passes by replica kind and outcome",
		}, []string{"kind", "status"}),
		SyncRecords: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "transactions_catalog_sync_records_total",
			Help: "Catalog records upserted by replica kind",
		}, []string{"kind"}),
		SyncDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "transactions_catalog_sync_duration_seconds",
			Help:    "Duration of one catalog sync pass per replica kind",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"kind"}),
	}
}

// IncrementTransactionCreated records a successful transaction creation.
func (m *Metrics) IncrementTransactionCreated() {
	m.TransactionsCreated.Inc()
}

// IncrementTransferCreated records a successful transfer creation.
func (m *Metrics) IncrementTransferCreated() {
	m.TransfersCreated.Inc()
}

// ObserveSyncRun records one sync pass for a kind: its outcome, how many
// records it upserted and how long it took. Call with time.Now() captured at
// the start of the pass.
func (m *Metrics) ObserveSyncRun(kind, status string, records int, start time.Time) {
	m.SyncRuns.WithLabelValues(kind, status).Inc()
	if records > 0 {
		m.SyncRecords.WithLabelValues(kind).Add(float64(records))
	}
	if status != SyncSkipped {
		m.SyncDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	}
}
