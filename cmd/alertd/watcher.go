// Package main implements the groundwater level alert watcher.
//
// This file contains the Watcher type which polls chartd for a configured
// set of stations and classifies each station's latest water level:
//
//	poll → classify → publish
//
// The watcher runs continuously via Run(), executing Tick() at regular
// intervals. Classifications are kept in memory and served on /alerts; a
// station whose chart cannot be fetched is reported as unknown rather than
// silently dropped.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/groundwatch/groundwatch/cmd/alertd/metrics"
	"github.com/groundwatch/groundwatch/pkg/chartdata"
	"github.com/groundwatch/groundwatch/pkg/httpx"
	"github.com/groundwatch/groundwatch/pkg/storage"
	gwtls "github.com/groundwatch/groundwatch/pkg/tls"
)

// Severity classifies a station's latest groundwater level.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityNormal   Severity = "normal"
	// SeverityUnknown means the station's level could not be determined,
	// either because the poll failed or because the chart was empty.
	SeverityUnknown Severity = "unknown"
)

// Alert is the current classification of one watched station.
type Alert struct {
	Station   string    `json:"station"`
	Severity  Severity  `json:"severity"`
	Level     float64   `json:"level,omitempty"`
	Unit      string    `json:"unit,omitempty"`
	Message   string    `json:"message,omitempty"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Watcher polls chartd and maintains per-station alert state.
type Watcher struct {
	chartdURL     string
	stations      []string
	rangeSel      string
	criticalBelow float64
	warningBelow  float64
	client        *http.Client
	logger        *slog.Logger
	metrics       *metrics.Metrics
	now           func() time.Time

	mu     sync.RWMutex
	alerts map[string]Alert
}

// NewWatcher creates a Watcher polling chartdURL for the given stations.
func NewWatcher(chartdURL string, stations []string, rangeSel string, criticalBelow, warningBelow float64, tlsCfg gwtls.Config, logger *slog.Logger, m *metrics.Metrics) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	client, err := httpx.NewClient(tlsCfg, 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("create chartd client: %w", err)
	}

	return &Watcher{
		chartdURL:     chartdURL,
		stations:      stations,
		rangeSel:      rangeSel,
		criticalBelow: criticalBelow,
		warningBelow:  warningBelow,
		client:        client,
		logger:        logger,
		metrics:       m,
		now:           time.Now,
		alerts:        make(map[string]Alert),
	}, nil
}

// Run executes the poll loop at regular intervals.
// Blocks until context is canceled.
func (w *Watcher) Run(ctx context.Context, interval time.Duration) error {
	w.logger.Info("starting alert loop", "interval", interval, "stations", len(w.stations))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.Tick(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("alert loop stopped")
			return ctx.Err()
		case <-ticker.C:
			w.Tick(ctx)
		}
	}
}

// Tick polls every watched station once and republishes alert state.
// Exported for testing purposes.
func (w *Watcher) Tick(ctx context.Context) {
	counts := map[Severity]int{}

	for _, station := range w.stations {
		alert := w.check(ctx, station)
		counts[alert.Severity]++

		w.mu.Lock()
		w.alerts[station] = alert
		w.mu.Unlock()

		if alert.Severity == SeverityCritical || alert.Severity == SeverityWarning {
			w.logger.Warn("station level alert",
				"station", station,
				"severity", alert.Severity,
				"level", alert.Level,
			)
		}
	}

	if w.metrics != nil {
		for _, severity := range []Severity{SeverityCritical, SeverityWarning, SeverityNormal, SeverityUnknown} {
			w.metrics.SetActiveAlerts(string(severity), counts[severity])
		}
	}
}

// check polls one station and classifies the result.
func (w *Watcher) check(ctx context.Context, station string) Alert {
	start := w.now()
	snapshot, err := w.poll(ctx, station)
	if w.metrics != nil {
		w.metrics.ObservePoll(time.Since(start).Seconds())
	}

	alert := Alert{Station: station, CheckedAt: w.now()}

	if err != nil {
		if w.metrics != nil {
			w.metrics.RecordPollError(station)
		}
		w.logger.Warn("station poll failed", "station", station, "error", err)
		alert.Severity = SeverityUnknown
		alert.Message = "chart data unavailable"
		return alert
	}

	if snapshot.Status != chartdata.StatusOK || len(snapshot.Series) == 0 {
		alert.Severity = SeverityUnknown
		alert.Message = snapshot.Message
		if alert.Message == "" {
			alert.Message = "no recent readings"
		}
		return alert
	}

	// The last bucket is the most recent observation for the range.
	level := snapshot.Series[len(snapshot.Series)-1].Value
	alert.Level = level
	alert.Unit = snapshot.Unit

	switch {
	case level < w.criticalBelow:
		alert.Severity = SeverityCritical
		alert.Message = fmt.Sprintf("water level %.2f below critical threshold %.2f", level, w.criticalBelow)
	case level < w.warningBelow:
		alert.Severity = SeverityWarning
		alert.Message = fmt.Sprintf("water level %.2f below warning threshold %.2f", level, w.warningBelow)
	default:
		alert.Severity = SeverityNormal
	}

	if w.metrics != nil {
		w.metrics.SetStationLevel(station, level)
	}

	return alert
}

// poll fetches the latest chart snapshot for one station from chartd.
func (w *Watcher) poll(ctx context.Context, station string) (*storage.Snapshot, error) {
	url := fmt.Sprintf("%s/stations/%s/chart?range=%s", w.chartdURL, station, w.rangeSel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chart: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chartd returned status %d", resp.StatusCode)
	}

	var snapshot storage.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode chart: %w", err)
	}

	return &snapshot, nil
}

// Alerts returns the current classification of every watched station,
// ordered by station code.
func (w *Watcher) Alerts() []Alert {
	w.mu.RLock()
	defer w.mu.RUnlock()

	alerts := make([]Alert, 0, len(w.alerts))
	for _, alert := range w.alerts {
		alerts = append(alerts, alert)
	}
	sort.Slice(alerts, func(i, j int) bool { return alerts[i].Station < alerts[j].Station })
	return alerts
}

// AlertsHandler serves the current alert state as JSON.
func (w *Watcher) AlertsHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if err := httpx.WriteJSON(rw, http.StatusOK, map[string]any{"alerts": w.Alerts()}); err != nil {
			w.logger.Error("failed to write JSON response", "error", err)
		}
	}
}
