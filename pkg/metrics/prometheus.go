// Package metrics provides Prometheus metrics for the race plan generation
// service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Plan lifecycle
	plansRequested prometheus.Counter
	plansCompleted prometheus.Counter
	plansFailed    prometheus.Counter
	plansDuplicate prometheus.Counter

	// Generation pipeline
	phaseDuration      *prometheus.HistogramVec
	generationDuration prometheus.Histogram
	narrativeFailures  prometheus.Counter

	// Resolution fallbacks
	weatherResolutions *prometheus.CounterVec
	courseResolutions  *prometheus.CounterVec

	// Queue health
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueues      prometheus.Counter
	queueDequeues      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Workers and store
	workerCount   prometheus.Gauge
	plansTracked  prometheus.Gauge
	plansByStatus *prometheus.GaugeVec

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global manager backed by a custom registry so default Go collectors do not
// pollute the exposition.
var (
	customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry
	globalManager  *Manager                   //nolint:gochecknoglobals // singleton manager
)

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a Manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "raceday",
		subsystem:        "planner",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.register()
	return m
}

func (m *Manager) register() {
	factory := promauto.With(m.registry)

	m.plansRequested = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "plans_requested_total", Help: "Plan generation requests accepted.",
	})
	m.plansCompleted = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "plans_completed_total", Help: "Plans that reached the completed state.",
	})
	m.plansFailed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "plans_failed_total", Help: "Plans that reached the failed state.",
	})
	m.plansDuplicate = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "plans_duplicate_total", Help: "Requests rejected as duplicates of an earlier request id.",
	})

	m.phaseDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "phase_duration_seconds", Help: "Duration of each generation phase.",
		Buckets: m.histogramBuckets,
	}, []string{"phase"})
	m.generationDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "generation_duration_seconds", Help: "End-to-end plan generation duration.",
		Buckets: m.histogramBuckets,
	})
	m.narrativeFailures = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "narrative_failures_total", Help: "Narrative generation attempts that failed and were skipped.",
	})

	m.weatherResolutions = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "weather_resolutions_total", Help: "Weather resolutions by source tier.",
	}, []string{"source"})
	m.courseResolutions = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "course_resolutions_total", Help: "Course resolutions by strategy tier.",
	}, []string{"tier"})

	m.queueSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_size", Help: "Jobs currently queued for generation.",
	})
	m.queueCapacity = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_capacity", Help: "Configured queue capacity.",
	})
	m.queueUtilization = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_utilization", Help: "Queue fill ratio in [0,1].",
	})
	m.queueEnqueues = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_enqueues_total", Help: "Successful enqueues.",
	})
	m.queueDequeues = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_dequeues_total", Help: "Jobs handed to workers.",
	})
	m.queueEnqueueErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_enqueue_errors_total", Help: "Enqueue attempts rejected (full or closed).",
	})

	m.workerCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "worker_count", Help: "Configured generation workers.",
	})
	m.plansTracked = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "plans_tracked", Help: "Plans currently held in the store.",
	})
	m.plansByStatus = factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "plans_by_status", Help: "Plans in the store by lifecycle status.",
	}, []string{"status"})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "http_requests_total", Help: "HTTP requests by endpoint, method and status.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "http_request_duration_ms", Help: "HTTP request latency in milliseconds.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	}, []string{"endpoint", "method", "status"})
}

// GetRegistry returns the custom registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers delegating to the global manager.

func RecordPlanRequested()  { globalManager.plansRequested.Inc() }
func RecordPlanCompleted()  { globalManager.plansCompleted.Inc() }
func RecordPlanFailed()     { globalManager.plansFailed.Inc() }
func RecordPlanDuplicate()  { globalManager.plansDuplicate.Inc() }
func RecordNarrativeSkip()  { globalManager.narrativeFailures.Inc() }
func RecordQueueEnqueue()   { globalManager.queueEnqueues.Inc() }
func RecordQueueDequeue()   { globalManager.queueDequeues.Inc() }
func RecordEnqueueError()   { globalManager.queueEnqueueErrors.Inc() }

func RecordPhaseDuration(phase string, seconds float64) {
	globalManager.phaseDuration.WithLabelValues(phase).Observe(seconds)
}

func RecordGenerationDuration(seconds float64) {
	globalManager.generationDuration.Observe(seconds)
}

func RecordWeatherResolution(source string) {
	globalManager.weatherResolutions.WithLabelValues(source).Inc()
}

func RecordCourseResolution(tier string) {
	globalManager.courseResolutions.WithLabelValues(tier).Inc()
}

func UpdateQueueSize(n int)            { globalManager.queueSize.Set(float64(n)) }
func UpdateQueueCapacity(n int)        { globalManager.queueCapacity.Set(float64(n)) }
func UpdateQueueUtilization(r float64) { globalManager.queueUtilization.Set(r) }
func UpdateWorkerCount(n int)          { globalManager.workerCount.Set(float64(n)) }
func UpdatePlansTracked(n int)         { globalManager.plansTracked.Set(float64(n)) }

func UpdatePlansByStatus(status string, n int) {
	globalManager.plansByStatus.WithLabelValues(status).Set(float64(n))
}

func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}
