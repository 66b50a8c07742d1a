package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the catalog module. Tracks entity
// creation counts and the duration of the default-account flip, the one
// multi-row write path the service has.
type Metrics struct {
	HoldersCreated     prometheus.Counter
	AccountsCreated    prometheus.Counter
	CategoriesCreated  prometheus.Counter
	DefaultFlips       prometheus.Counter
	SetDefaultDuration prometheus.Histogram
}

// New creates a Metrics instance with all catalog metrics registered.
func New() *Metrics {
	return &Metrics{
		HoldersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "catalog_registry_holders_created_total",
			Help: "Total number of registry holders created",
		}),
		AccountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "catalog_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		CategoriesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "catalog_categories_created_total",
			Help: "Total number of categories created",
		}),
		DefaultFlips: promauto.NewCounter(prometheus.CounterOpts{
			Name: "catalog_default_account_flips_total",
			Help: "Total number of default-account reassignments",
		}),
		SetDefaultDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "catalog_set_default_duration_seconds",
			Help:    "Duration of SetDefaultAccount operations (multi-row unit of work)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementHolderCreated records a successful registry holder creation.
func (m *Metrics) IncrementHolderCreated() {
	m.HoldersCreated.Inc()
}

// IncrementAccountCreated records a successful account creation.
func (m *Metrics) IncrementAccountCreated() {
	m.AccountsCreated.Inc()
}

// IncrementCategoryCreated records a successful category creation.
func (m *Metrics) IncrementCategoryCreated() {
	m.CategoriesCreated.Inc()
}

// IncrementDefaultFlip records a default-account reassignment.
func (m *Metrics) IncrementDefaultFlip() {
	m.DefaultFlips.Inc()
}

// ObserveSetDefault records the duration of a SetDefaultAccount operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveSetDefault(start time.Time) {
	m.SetDefaultDuration.Observe(time.Since(start).Seconds())
}
