package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default configuration.
const (
	defaultNamespace = "sage"
	defaultSubsystem = "analytics"
)

// Manager owns the Prometheus metrics of the analytics service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Ingestion metrics
	datasetsLoaded   prometheus.Counter
	rowsNormalized   prometheus.Counter
	rowsSkipped      prometheus.Counter
	rowsDeduplicated prometheus.Counter

	// Query metrics
	queriesTotal  *prometheus.CounterVec
	queryLatency  *prometheus.HistogramVec
	queryFailures *prometheus.CounterVec

	// Insight metrics
	insightsEmitted *prometheus.CounterVec

	// Active dataset gauges
	activeRecords  prometheus.Gauge
	activeStudents prometheus.Gauge
	activeSubjects prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        defaultNamespace,
		subsystem:        defaultSubsystem,
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.datasetsLoaded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "datasets_loaded_total",
		Help:      "Total number of dataset snapshots activated",
	})
	m.rowsNormalized = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rows_normalized_total",
		Help:      "Total number of rows kept by normalization",
	})
	m.rowsSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rows_skipped_total",
		Help:      "Total number of rows skipped during normalization (data quality indicator)",
	})
	m.rowsDeduplicated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rows_deduplicated_total",
		Help:      "Total number of duplicate rows resolved last-write-wins",
	})

	m.queriesTotal = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "queries_total",
			Help:      "Total number of analytics queries by kind",
		},
		[]string{"query"},
	)
	m.queryLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "query_latency_milliseconds",
			Help:      "Histogram of analytics query latency in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"query"},
	)
	m.queryFailures = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "query_failures_total",
			Help:      "Total number of failed analytics queries by kind",
		},
		[]string{"query"},
	)

	m.insightsEmitted = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "insights_emitted_total",
			Help:      "Total number of insight events emitted by kind",
		},
		[]string{"kind"},
	)

	m.activeRecords = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "active_dataset_records",
		Help:      "Record count of the active dataset snapshot",
	})
	m.activeStudents = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "active_dataset_students",
		Help:      "Student count of the active dataset snapshot",
	})
	m.activeSubjects = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "active_dataset_subjects",
		Help:      "Subject count of the active dataset snapshot",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
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
}

// RecordDatasetLoaded records the outcome of a dataset activation.
func RecordDatasetLoaded(kept, skipped, deduplicated int) {
	globalManager.datasetsLoaded.Inc()
	globalManager.rowsNormalized.Add(float64(kept))
	globalManager.rowsSkipped.Add(float64(skipped))
	globalManager.rowsDeduplicated.Add(float64(deduplicated))
}

// RecordQuery increments the query counter for one query kind.
func RecordQuery(query string) {
	globalManager.queriesTotal.WithLabelValues(query).Inc()
}

// RecordQueryFailure increments the failure counter for one query kind.
func RecordQueryFailure(query string) {
	globalManager.queryFailures.WithLabelValues(query).Inc()
}

// RecordQueryLatency records one query's latency.
func RecordQueryLatency(query string, latencyMs float64) {
	globalManager.queryLatency.WithLabelValues(query).Observe(latencyMs)
}

// RecordInsights increments the emitted-insight counter for a kind.
func RecordInsights(kind string, count int) {
	if count > 0 {
		globalManager.insightsEmitted.WithLabelValues(kind).Add(float64(count))
	}
}

// UpdateActiveDataset sets the active snapshot gauges.
func UpdateActiveDataset(records, students, subjects int) {
	globalManager.activeRecords.Set(float64(records))
	globalManager.activeStudents.Set(float64(students))
	globalManager.activeSubjects.Set(float64(subjects))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
