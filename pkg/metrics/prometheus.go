// Package metrics provides Prometheus metrics for the riskset estimation library.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager manages all Prometheus metrics for riskset.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Estimator metrics - the core computation
	estimatesTotal      prometheus.Counter
	estimateErrors      prometheus.Counter
	estimateDuration    prometheus.Histogram
	estimateRows        prometheus.Histogram
	estimateInputSize   prometheus.Histogram
	degenerateRowsTotal prometheus.Counter
	strictRejections    prometheus.Counter

	// Cohort metrics - synthetic data generation
	cohortsGenerated   prometheus.Counter
	cohortObservations prometheus.Histogram
	cohortDuration     prometheus.Histogram

	// Study metrics - replicate orchestration
	replicatesTotal      prometheus.Counter
	verificationFailures prometheus.Counter
	studyDuration        prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "riskset",
		subsystem:        "estimator",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.estimatesTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "estimates_total",
		Help:      "Total number of estimates computed",
	})

	m.estimateErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "estimate_errors_total",
		Help:      "Total number of estimate calls rejected at input validation",
	})

	m.estimateDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "estimate_duration_milliseconds",
		Help:      "Histogram of end-to-end estimate duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.estimateRows = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "estimate_rows",
		Help:      "Histogram of distinct event times per estimate",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
	})

	m.estimateInputSize = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "estimate_input_size",
		Help:      "Histogram of raw observations per estimate",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 12),
	})

	m.degenerateRowsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "degenerate_rows_total",
		Help:      "Total number of rows with a zero at-risk set (NaN hazards)",
	})

	m.strictRejections = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "strict_rejections_total",
		Help:      "Total number of inputs rejected by strict validation",
	})

	m.cohortsGenerated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "cohort",
		Name:      "generated_total",
		Help:      "Total number of synthetic cohorts generated",
	})

	m.cohortObservations = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "cohort",
		Name:      "observations",
		Help:      "Histogram of observations per generated cohort",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 12),
	})

	m.cohortDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "cohort",
		Name:      "generation_duration_milliseconds",
		Help:      "Histogram of cohort generation duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.replicatesTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "study",
		Name:      "replicates_total",
		Help:      "Total number of study replicates completed",
	})

	m.verificationFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "study",
		Name:      "verification_failures_total",
		Help:      "Total number of estimator invariant verification failures",
	})

	m.studyDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "study",
		Name:      "duration_milliseconds",
		Help:      "Histogram of full study duration in milliseconds",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 12),
	})
}

// RecordEstimate records a completed estimate with its size and duration.
func RecordEstimate(inputSize, rows int, durationMs float64) {
	globalManager.estimatesTotal.Inc()
	globalManager.estimateInputSize.Observe(float64(inputSize))
	globalManager.estimateRows.Observe(float64(rows))
	globalManager.estimateDuration.Observe(durationMs)
}

// RecordEstimateError increments the estimate error counter.
func RecordEstimateError() {
	globalManager.estimateErrors.Inc()
}

// RecordDegenerateRows adds to the zero at-risk row counter.
func RecordDegenerateRows(n int) {
	globalManager.degenerateRowsTotal.Add(float64(n))
}

// RecordStrictRejection increments the strict validation rejection counter.
func RecordStrictRejection() {
	globalManager.strictRejections.Inc()
}

// RecordCohortGenerated records a generated cohort with its size and duration.
func RecordCohortGenerated(observations int, durationMs float64) {
	globalManager.cohortsGenerated.Inc()
	globalManager.cohortObservations.Observe(float64(observations))
	globalManager.cohortDuration.Observe(durationMs)
}

// RecordReplicate increments the completed replicate counter.
func RecordReplicate() {
	globalManager.replicatesTotal.Inc()
}

// RecordVerificationFailure increments the invariant verification failure counter.
func RecordVerificationFailure() {
	globalManager.verificationFailures.Inc()
}

// RecordStudyDuration records a full study duration in milliseconds.
func RecordStudyDuration(durationMs float64) {
	globalManager.studyDuration.Observe(durationMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Handler returns an HTTP handler serving the custom registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(customRegistry, promhttp.HandlerOpts{})
}
