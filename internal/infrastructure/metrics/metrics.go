package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "moneybook"

// Metrics holds all Prometheus metrics. It implements usecase.StoreMetrics.
type Metrics struct {
	// Store metrics
	StoreCommands   *prometheus.CounterVec
	PersistFailures *prometheus.CounterVec
	LoadFallbacks   *prometheus.CounterVec
	Transactions    prometheus.Gauge

	// Watcher metrics
	SlotChanges *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Rate limiting metrics
	RateLimitHits prometheus.Counter

	// Idempotency metrics
	IdempotentReplays prometheus.Counter
}

// New creates the metrics and registers them with reg. A nil reg registers
// with the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		StoreCommands: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_commands_total",
				Help:      "Store commands by name and whether they changed state",
			},
			[]string{"command", "applied"},
		),
		PersistFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "persist_failures_total",
				Help:      "Failed slot writes",
			},
			[]string{"slot"},
		),
		LoadFallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "load_fallbacks_total",
				Help:      "Unreadable slots replaced by defaults at startup",
			},
			[]string{"slot"},
		),
		Transactions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "transactions",
			Help:      "Number of transactions held by the store",
		}),

		SlotChanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "slot_changes_total",
				Help:      "Out-of-band slot changes picked up by the watcher",
			},
			[]string{"source"},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_duration_seconds",
				Help:      "HTTP request duration",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "HTTP requests currently being served",
		}),

		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_hits_total",
			Help:      "Requests rejected by the rate limiter",
		}),

		IdempotentReplays: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "idempotent_replays_total",
			Help:      "Responses served from the idempotency store",
		}),
	}
}

func (m *Metrics) ObserveCommand(command string, applied bool) {
	m.StoreCommands.WithLabelValues(command, strconv.FormatBool(applied)).Inc()
}

func (m *Metrics) ObservePersistFailure(slot string) {
	m.PersistFailures.WithLabelValues(slot).Inc()
}

func (m *Metrics) ObserveLoadFallback(slot string) {
	m.LoadFallbacks.WithLabelValues(slot).Inc()
}

func (m *Metrics) SetTransactionCount(n int) {
	m.Transactions.Set(float64(n))
}

// ObserveSlotChange counts a reload trigger from source ("notify" or "poll").
func (m *Metrics) ObserveSlotChange(source string) {
	m.SlotChanges.WithLabelValues(source).Inc()
}
