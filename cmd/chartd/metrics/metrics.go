// Package metrics provides Prometheus instrumentation for chartd.
//
// It exposes operational metrics about the chart pipeline: upstream fetch
// durations, pipeline build durations, snapshot cache effectiveness, and
// error tracking. All metrics are served on the /metrics HTTP endpoint for
// Prometheus scraping.
//
// Metrics exposed:
//   - groundwatch_wris_fetch_seconds: Histogram of upstream API call duration, by endpoint
//   - groundwatch_pipeline_build_seconds: Histogram of chart pipeline duration
//   - groundwatch_snapshot_age_seconds: Gauge of the age of the last served snapshot
//   - groundwatch_cache_requests_total: Counter of snapshot cache lookups by outcome
//   - groundwatch_errors_total: Counter of errors by component and reason
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for chartd.
type Metrics struct {
	WRISFetchSeconds     *prometheus.HistogramVec
	PipelineBuildSeconds prometheus.Histogram
	SnapshotAgeSeconds   prometheus.Gauge
	CacheRequestsTotal   *prometheus.CounterVec
	ErrorsTotal          *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		WRISFetchSeconds: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "groundwatch_wris_fetch_seconds",
			Help:    "Time spent calling the upstream India-WRIS API",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		PipelineBuildSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "groundwatch_pipeline_build_seconds",
			Help:    "Time spent validating, bucketing and summarizing readings",
			Buckets: prometheus.DefBuckets,
		}),

		SnapshotAgeSeconds: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "groundwatch_snapshot_age_seconds",
			Help: "Age of the most recently served chart snapshot in seconds",
		}),

		CacheRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "groundwatch_cache_requests_total",
			Help: "Snapshot cache lookups by outcome",
		}, []string{"outcome"}),

		ErrorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "groundwatch_errors_total",
			Help: "Total number of errors by component and reason",
		}, []string{"component", "reason"}),
	}
}

// ObserveFetch records the duration of one upstream API call.
func (m *Metrics) ObserveFetch(endpoint string, seconds float64) {
	m.WRISFetchSeconds.WithLabelValues(endpoint).Observe(seconds)
}

// ObserveBuild records the duration of one pipeline run.
func (m *Metrics) ObserveBuild(seconds float64) {
	m.PipelineBuildSeconds.Observe(seconds)
}

// SetSnapshotAge sets the age of the snapshot just served.
func (m *Metrics) SetSnapshotAge(seconds float64) {
	m.SnapshotAgeSeconds.Set(seconds)
}

// RecordCacheHit counts a lookup answered from the snapshot store.
func (m *Metrics) RecordCacheHit() {
	m.CacheRequestsTotal.WithLabelValues("hit").Inc()
}

// RecordCacheMiss counts a lookup that required an upstream refresh.
func (m *Metrics) RecordCacheMiss() {
	m.CacheRequestsTotal.WithLabelValues("miss").Inc()
}

// RecordError increments the error counter.
func (m *Metrics) RecordError(component, reason string) {
	m.ErrorsTotal.WithLabelValues(component, reason).Inc()
}
