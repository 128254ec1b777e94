// Package metrics provides Prometheus metrics for the housing ranker service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Core business metrics - the comparison loop
	matchesRecorded    prometheus.Counter
	duplicateDecisions prometheus.Counter
	decisionErrors     prometheus.Counter
	pairsServed        prometheus.Counter

	// Store metrics - persistence health
	storeSaveLatency prometheus.Histogram
	storeLoadLatency prometheus.Histogram
	storeSaveErrors  prometheus.Counter

	// State gauges
	listingCount    prometheus.Gauge
	historyLength   prometheus.Gauge
	totalRatingMass prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "ranker",
		subsystem:        "matchups",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

// initializeMetrics creates all Prometheus metrics on the configured registry.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.matchesRecorded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "matches_recorded_total",
		Help:      "Total number of comparison decisions applied to the ratings",
	})

	m.duplicateDecisions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "duplicate_decisions_total",
		Help:      "Total number of replayed decisions acknowledged without applying",
	})

	m.decisionErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "decision_errors_total",
		Help:      "Total number of decisions rejected or failed before commit",
	})

	m.pairsServed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pairs_served_total",
		Help:      "Total number of comparison pairs handed to the UI",
	})

	m.storeSaveLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_save_latency_milliseconds",
		Help:      "State file save latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.storeLoadLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_load_latency_milliseconds",
		Help:      "State file load latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.storeSaveErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_save_errors_total",
		Help:      "Total number of failed state file saves (decisions not durably recorded)",
	})

	m.listingCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "listing_count",
		Help:      "Number of listings tracked in the rating state",
	})

	m.historyLength = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "history_length",
		Help:      "Number of recorded matches in the history log",
	})

	m.totalRatingMass = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "total_rating_mass",
		Help:      "Sum of all current ratings; conserved modulo new listings joining at baseline",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint, method and status",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorsByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Total number of error responses by endpoint and method",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Current heap allocation in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current number of goroutines",
	})
}

// GetRegistry returns the registry backing the global manager, for serving /healthz.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers operating on the global manager.

func RecordMatchApplied()            { globalManager.matchesRecorded.Inc() }
func RecordDuplicateDecision()       { globalManager.duplicateDecisions.Inc() }
func RecordDecisionError()           { globalManager.decisionErrors.Inc() }
func RecordPairServed()              { globalManager.pairsServed.Inc() }
func RecordStoreSaveError()          { globalManager.storeSaveErrors.Inc() }
func RecordStoreSaveLatency(ms float64) { globalManager.storeSaveLatency.Observe(ms) }
func RecordStoreLoadLatency(ms float64) { globalManager.storeLoadLatency.Observe(ms) }

func UpdateListingCount(n int)            { globalManager.listingCount.Set(float64(n)) }
func UpdateHistoryLength(n int)           { globalManager.historyLength.Set(float64(n)) }
func UpdateTotalRatingMass(mass float64)  { globalManager.totalRatingMass.Set(mass) }
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemoryUsage.Set(float64(bytes)) }
func UpdateSystemGoroutineCount(n int)    { globalManager.systemGoroutineCount.Set(float64(n)) }

// RecordHTTPRequest counts one request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records one request's latency.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(ms)
}

// RecordErrorByEndpoint counts one error response.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}
