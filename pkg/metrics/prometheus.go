// Package metrics provides Prometheus metrics for the first-touchdown analyzer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the analyzer.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Pipeline
	runs            *prometheus.CounterVec
	runDuration     prometheus.Histogram
	firstTouchdowns prometheus.Gauge
	playersScored   prometheus.Gauge
	gamesLinked     prometheus.Gauge
	gamesUnlinked   prometheus.Gauge
	valueBets       prometheus.Gauge
	boardSize       prometheus.Gauge
	boardReplace    prometheus.Histogram

	// Odds fetch
	oddsFetches      *prometheus.CounterVec
	oddsFetchLatency prometheus.Histogram

	// Fetch queue and workers
	queueSize      prometheus.Gauge
	queueCapacity  prometheus.Gauge
	queueEnqueued  prometheus.Counter
	queueDequeued  prometheus.Counter
	queueErrors    *prometheus.CounterVec
	workersActive  prometheus.Gauge
	workerFailures prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec
	errorsByType      *prometheus.CounterVec
	errorsByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager. Without WithPrometheusRegistry
// the metrics register on prometheus.DefaultRegisterer.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "firsttd",
		subsystem:        "analyzer",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counter(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gauge(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels}
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.runs = auto.NewCounterVec(m.counter("pipeline_runs_total", "Pipeline runs by outcome"), []string{"status"})
	m.runDuration = auto.NewHistogram(m.histogram("pipeline_run_duration_milliseconds", "Wall time of a full pipeline run", m.histogramBuckets))
	m.firstTouchdowns = auto.NewGauge(m.gauge("first_touchdowns", "Games with a resolved first touchdown scorer in the last run"))
	m.playersScored = auto.NewGauge(m.gauge("players_scored", "Players with a first touchdown probability in the last run"))
	m.gamesLinked = auto.NewGauge(m.gauge("games_linked", "Games linked to a market event in the last run"))
	m.gamesUnlinked = auto.NewGauge(m.gauge("games_unlinked", "Target games without a market event in the last run"))
	m.valueBets = auto.NewGauge(m.gauge("value_bets", "Positive expected value bets found in the last run"))
	m.boardSize = auto.NewGauge(m.gauge("board_size", "Entries currently on the value bet board"))
	m.boardReplace = auto.NewHistogram(m.histogram("board_replace_duration_milliseconds", "Time to rebuild and publish the value bet board", m.histogramBuckets))

	m.oddsFetches = auto.NewCounterVec(m.counter("odds_fetches_total", "Market fetches by source and result"), []string{"source", "result"})
	m.oddsFetchLatency = auto.NewHistogram(m.histogram("odds_fetch_latency_milliseconds", "Latency of market fetches", m.histogramBuckets))

	m.queueSize = auto.NewGauge(m.gauge("fetch_queue_size", "Fetch jobs waiting in the queue"))
	m.queueCapacity = auto.NewGauge(m.gauge("fetch_queue_capacity", "Fetch queue capacity"))
	m.queueEnqueued = auto.NewCounter(m.counter("fetch_queue_enqueued_total", "Fetch jobs enqueued"))
	m.queueDequeued = auto.NewCounter(m.counter("fetch_queue_dequeued_total", "Fetch jobs dequeued"))
	m.queueErrors = auto.NewCounterVec(m.counter("fetch_queue_errors_total", "Rejected fetch jobs by reason"), []string{"reason"})
	m.workersActive = auto.NewGauge(m.gauge("fetch_workers_active", "Fetch workers currently running"))
	m.workerFailures = auto.NewCounter(m.counter("fetch_worker_failures_total", "Fetch jobs that ended in an error"))

	m.httpRequests = auto.NewCounterVec(m.counter("http_requests_total", "HTTP requests by endpoint and method"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogram("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets), []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(m.counter("errors_by_component_total", "Errors by component"), []string{"component", "error_type"})
	m.errorsByType = auto.NewCounterVec(m.counter("errors_by_type_total", "Errors by type"), []string{"error_type", "severity"})
	m.errorsByEndpoint = auto.NewCounterVec(m.counter("errors_by_endpoint_total", "Errors by endpoint"), []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gauge("system_memory_usage_bytes", "Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gauge("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogram("system_gc_pause_time_milliseconds", "Average GC pause in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// Pipeline metrics.

// RecordRun counts a finished pipeline run with its status ("ok" or "error").
func RecordRun(status string, durationMs float64) {
	globalManager.runs.WithLabelValues(status).Inc()
	globalManager.runDuration.Observe(durationMs)
}

// UpdateFirstTouchdowns sets the number of games with a resolved scorer.
func UpdateFirstTouchdowns(n int) {
	globalManager.firstTouchdowns.Set(float64(n))
}

// UpdatePlayersScored sets the number of players with a probability.
func UpdatePlayersScored(n int) {
	globalManager.playersScored.Set(float64(n))
}

// UpdateLinkedGames sets linked and unlinked game gauges.
func UpdateLinkedGames(linked, unlinked int) {
	globalManager.gamesLinked.Set(float64(linked))
	globalManager.gamesUnlinked.Set(float64(unlinked))
}

// UpdateValueBets sets the number of positive-EV bets.
func UpdateValueBets(n int) {
	globalManager.valueBets.Set(float64(n))
}

// UpdateBoardSize sets the board entry count.
func UpdateBoardSize(n int) {
	globalManager.boardSize.Set(float64(n))
}

// RecordRepositoryReplace observes a board rebuild.
func RecordRepositoryReplace(durationMs float64) {
	globalManager.boardReplace.Observe(durationMs)
}

// Odds fetch metrics.

// RecordOddsFetch counts a market fetch. source is "network" or "cache";
// result is "ok" or "error".
func RecordOddsFetch(source, result string, latencyMs float64) {
	globalManager.oddsFetches.WithLabelValues(source, result).Inc()
	globalManager.oddsFetchLatency.Observe(latencyMs)
}

// Queue and worker metrics.

// UpdateQueueSize sets the current queue length.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueError counts a rejected enqueue.
func RecordQueueError(reason string) {
	globalManager.queueErrors.WithLabelValues(reason).Inc()
}

// UpdateWorkersActive sets the number of running workers.
func UpdateWorkersActive(n int) {
	globalManager.workersActive.Set(float64(n))
}

// RecordWorkerFailure counts a failed fetch job.
func RecordWorkerFailure() {
	globalManager.workerFailures.Inc()
}

// HTTP metrics.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error metrics.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorsByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System metrics.

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
