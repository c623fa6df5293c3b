package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cashbook"

// Metrics holds the ledger's Prometheus metrics and implements usecase.Recorder.
type Metrics struct {
	// Entry metrics
	EntryMutations *prometheus.CounterVec
	StoreErrors    *prometheus.CounterVec
	LedgerEntries  prometheus.Gauge

	// Balance engine
	BalanceDuration prometheus.Histogram

	// Statement metrics
	StatementsRendered *prometheus.CounterVec
	StatementsShared   *prometheus.CounterVec
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		EntryMutations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "entry_mutations_total",
				Help:      "Total entry mutations by operation",
			},
			[]string{"operation"},
		),
		StoreErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_errors_total",
				Help:      "Total entry store failures by operation",
			},
			[]string{"operation"},
		),
		LedgerEntries: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ledger_entries",
			Help:      "Number of entries in the ledger at the last read",
		}),
		BalanceDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "balance_compute_duration_seconds",
			Help:      "Duration of running balance recomputation",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		}),
		StatementsRendered: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "statements_rendered_total",
				Help:      "Total statements rendered by format",
			},
			[]string{"format"},
		),
		StatementsShared: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "statements_shared_total",
				Help:      "Total statements delivered by sink",
			},
			[]string{"sink"},
		),
	}
}

// EntryMutated counts a successful create, update or delete.
func (m *Metrics) EntryMutated(op string) {
	m.EntryMutations.WithLabelValues(op).Inc()
}

// StoreError counts a failed store call.
func (m *Metrics) StoreError(op string) {
	m.StoreErrors.WithLabelValues(op).Inc()
}

// LedgerSize records the entry count.
func (m *Metrics) LedgerSize(n int) {
	m.LedgerEntries.Set(float64(n))
}

// BalanceComputed observes one balance recomputation.
func (m *Metrics) BalanceComputed(d time.Duration) {
	m.BalanceDuration.Observe(d.Seconds())
}

// StatementRendered counts a rendered statement.
func (m *Metrics) StatementRendered(target string) {
	m.StatementsRendered.WithLabelValues(target).Inc()
}

// StatementShared counts a delivered statement.
func (m *Metrics) StatementShared(sink string) {
	m.StatementsShared.WithLabelValues(sink).Inc()
}
