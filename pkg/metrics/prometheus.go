// Package metrics provides Prometheus metrics for the cricsim similarity service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the cricsim service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Ranking Metrics - What the engine actually does
	rankings            *prometheus.CounterVec
	rankingLatency      *prometheus.HistogramVec
	candidatesScanned   *prometheus.HistogramVec
	candidatesUsable    *prometheus.HistogramVec
	fallbackActivations *prometheus.CounterVec
	famousCandidates    *prometheus.CounterVec

	// Candidate Source Metrics
	storeFetchLatency *prometheus.HistogramVec
	storeFetchErrors  *prometheus.CounterVec
	breakerState      *prometheus.GaugeVec
	playersStored     *prometheus.GaugeVec

	// Ingestion Metrics
	ingestEnqueued  *prometheus.CounterVec
	ingestProcessed *prometheus.CounterVec
	ingestFailed    *prometheus.CounterVec

	// Queue Metrics
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueUtilization prometheus.Gauge
	queueEnqueue     prometheus.Counter
	queueDequeue     prometheus.Counter
	queueRejected    *prometheus.CounterVec

	// Worker Metrics
	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "cricsim",
		subsystem:        "similarity",
		histogramBuckets: prometheus.DefBuckets,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) histogramVec(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	})
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	sizeBuckets := prometheus.ExponentialBuckets(1, 2, 12)

	m.rankings = m.counterVec("rankings_total",
		"Total number of similarity rankings computed", "variant")
	m.rankingLatency = m.histogramVec("ranking_latency_milliseconds",
		"Histogram of engine ranking latency in milliseconds", m.histogramBuckets, "variant")
	m.candidatesScanned = m.histogramVec("candidates_scanned",
		"Raw candidates handed to the engine per ranking", sizeBuckets, "variant")
	m.candidatesUsable = m.histogramVec("candidates_usable",
		"Candidates that passed validation per ranking", sizeBuckets, "variant")
	m.fallbackActivations = m.counterVec("fallback_activations_total",
		"Rankings that substituted the built-in fallback population", "variant")
	m.famousCandidates = m.counterVec("famous_candidates_total",
		"Candidates that matched the prominence allow-list", "variant")

	m.storeFetchLatency = m.histogramVec("store_fetch_latency_milliseconds",
		"Candidate store fetch latency in milliseconds", m.histogramBuckets, "variant")
	m.storeFetchErrors = m.counterVec("store_fetch_errors_total",
		"Candidate store fetch failures by reason", "variant", "reason")
	m.breakerState = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "breaker_state",
		Help:        "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		ConstLabels: m.customLabels,
	}, []string{"name"})
	m.playersStored = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "players_stored",
		Help:        "Player records held by the candidate store",
		ConstLabels: m.customLabels,
	}, []string{"variant"})

	m.ingestEnqueued = m.counterVec("ingest_enqueued_total",
		"Player records accepted for ingestion", "variant")
	m.ingestProcessed = m.counterVec("ingest_processed_total",
		"Player records written to the store", "variant")
	m.ingestFailed = m.counterVec("ingest_failed_total",
		"Player records rejected or failed during ingestion", "variant", "reason")

	m.queueSize = m.gauge("queue_size", "Current size of the ingestion queue")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum capacity of the ingestion queue")
	m.queueUtilization = m.gauge("queue_utilization_ratio", "Ingestion queue utilization (0.0 to 1.0)")
	m.queueEnqueue = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.customLabels,
		Name: "queue_enqueue_total", Help: "Total number of jobs enqueued",
	})
	m.queueDequeue = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.customLabels,
		Name: "queue_dequeue_total", Help: "Total number of jobs dequeued",
	})
	m.queueRejected = m.counterVec("queue_rejected_total",
		"Enqueue attempts that were rejected", "reason")

	m.workerCount = m.gauge("worker_count", "Current number of ingestion workers")
	m.workerProcessingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "worker_processing_latency_milliseconds",
		Help:        "Worker job processing latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	})

	m.httpRequests = m.counterVec("http_requests_total",
		"Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", m.histogramBuckets, "endpoint", "method", "status_code")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total",
		"Error responses by endpoint, method and error type", "endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_gc_pause_time_milliseconds",
		Help:        "GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: m.customLabels,
	})
}

// Ranking Metrics Functions.

// RecordRanking records one engine ranking for variant.
func RecordRanking(variant string, latencyMs float64, scanned, usable int) {
	globalManager.rankings.WithLabelValues(variant).Inc()
	globalManager.rankingLatency.WithLabelValues(variant).Observe(latencyMs)
	globalManager.candidatesScanned.WithLabelValues(variant).Observe(float64(scanned))
	globalManager.candidatesUsable.WithLabelValues(variant).Observe(float64(usable))
}

// RecordFallbackActivation increments the fallback counter for variant.
func RecordFallbackActivation(variant string) {
	globalManager.fallbackActivations.WithLabelValues(variant).Inc()
}

// RecordFamousCandidates adds n allow-list matches for variant.
func RecordFamousCandidates(variant string, n int) {
	globalManager.famousCandidates.WithLabelValues(variant).Add(float64(n))
}

// Candidate Source Metrics Functions.

// RecordStoreFetchLatency records candidate store fetch latency.
func RecordStoreFetchLatency(variant string, latencyMs float64) {
	globalManager.storeFetchLatency.WithLabelValues(variant).Observe(latencyMs)
}

// RecordStoreFetchError records a failed candidate fetch.
func RecordStoreFetchError(variant, reason string) {
	globalManager.storeFetchErrors.WithLabelValues(variant, reason).Inc()
}

// UpdateBreakerState sets the breaker state gauge.
func UpdateBreakerState(name string, state float64) {
	globalManager.breakerState.WithLabelValues(name).Set(state)
}

// UpdatePlayersStored sets the stored player count for variant.
func UpdatePlayersStored(variant string, count int) {
	globalManager.playersStored.WithLabelValues(variant).Set(float64(count))
}

// Ingestion Metrics Functions.

// RecordIngestEnqueued increments accepted ingestion jobs.
func RecordIngestEnqueued(variant string) {
	globalManager.ingestEnqueued.WithLabelValues(variant).Inc()
}

// RecordIngestProcessed increments stored ingestion jobs.
func RecordIngestProcessed(variant string) {
	globalManager.ingestProcessed.WithLabelValues(variant).Inc()
}

// RecordIngestFailed increments failed ingestion jobs.
func RecordIngestFailed(variant, reason string) {
	globalManager.ingestFailed.WithLabelValues(variant, reason).Inc()
}

// Queue Metrics Functions.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueue.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeue.Inc()
}

// RecordQueueRejected increments the rejected enqueue counter.
func RecordQueueRejected(reason string) {
	globalManager.queueRejected.WithLabelValues(reason).Inc()
}

// Worker Metrics Functions.

// UpdateWorkerCount sets the current worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
