// Package metrics provides Prometheus instrumentation for alertd.
//
// Metrics exposed:
//   - groundwatch_alert_poll_seconds: Histogram of chartd poll duration
//   - groundwatch_station_level_meters: Gauge of the last observed level per station
//   - groundwatch_alerts_active: Gauge of active alerts by severity
//   - groundwatch_alert_poll_errors_total: Counter of failed polls per station
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for alertd.
type Metrics struct {
	PollSeconds     prometheus.Histogram
	StationLevel    *prometheus.GaugeVec
	AlertsActive    *prometheus.GaugeVec
	PollErrorsTotal *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		PollSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "groundwatch_alert_poll_seconds",
			Help:    "Time spent polling chartd for one station",
			Buckets: prometheus.DefBuckets,
		}),

		StationLevel: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "groundwatch_station_level_meters",
			Help: "Last observed groundwater level per station",
		}, []string{"station"}),

		AlertsActive: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "groundwatch_alerts_active",
			Help: "Number of stations currently at each severity",
		}, []string{"severity"}),

		PollErrorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "groundwatch_alert_poll_errors_total",
			Help: "Failed chartd polls per station",
		}, []string{"station"}),
	}
}

// ObservePoll records the duration of one station poll.
func (m *Metrics) ObservePoll(seconds float64) {
	m.PollSeconds.Observe(seconds)
}

// SetStationLevel records the last observed level for a station.
func (m *Metrics) SetStationLevel(station string, level float64) {
	m.StationLevel.WithLabelValues(station).Set(level)
}

// SetActiveAlerts records how many stations sit at a severity.
func (m *Metrics) SetActiveAlerts(severity string, count int) {
	m.AlertsActive.WithLabelValues(severity).Set(float64(count))
}

// RecordPollError counts a failed poll.
func (m *Metrics) RecordPollError(station string) {
	m.PollErrorsTotal.WithLabelValues(station).Inc()
}
