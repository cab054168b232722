// Package main implements the chart snapshot service.
//
// This file contains the Service type which orchestrates the chart pipeline
// for one request:
//
//	resolve range → check availability window → fetch readings → build → store
//
// Every refresh is tagged with a per-(station, range) generation number.
// Concurrent refreshes for the same key can finish out of order; a result
// whose generation is no longer the latest is discarded instead of stored,
// so the snapshot store never goes backwards.
package main

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/groundwatch/groundwatch/cmd/chartd/metrics"
	"github.com/groundwatch/groundwatch/pkg/chartdata"
	"github.com/groundwatch/groundwatch/pkg/storage"
	"github.com/groundwatch/groundwatch/pkg/wris"
)

// Service builds, caches and serves chart snapshots.
type Service struct {
	stations wris.StationProvider
	readings wris.ReadingProvider
	store    storage.Store
	cacheTTL time.Duration
	logger   *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time

	mu          sync.Mutex
	generations map[string]uint64
}

// NewService creates a Service.
func NewService(
	stations wris.StationProvider,
	readings wris.ReadingProvider,
	store storage.Store,
	cacheTTL time.Duration,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		stations:    stations,
		readings:    readings,
		store:       store,
		cacheTTL:    cacheTTL,
		logger:      logger,
		metrics:     m,
		now:         time.Now,
		generations: make(map[string]uint64),
	}
}

func snapshotKey(code string, sel chartdata.Selector) string {
	return code + "/" + string(sel)
}

// nextGeneration claims a new generation for the key and returns it.
func (s *Service) nextGeneration(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generations[key]++
	return s.generations[key]
}

// latestGeneration returns the most recently claimed generation for the key.
func (s *Service) latestGeneration(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[key]
}

// Station fetches station metadata for presentation.
func (s *Service) Station(ctx context.Context, code string) (*wris.StationMetadata, error) {
	start := s.now()
	meta, err := s.stations.Station(ctx, code)
	if s.metrics != nil {
		s.metrics.ObserveFetch("station", time.Since(start).Seconds())
	}
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordError("wris", "station_fetch")
		}
		return nil, err
	}
	return meta, nil
}

// Chart returns the chart snapshot for one station and range selector.
//
// A stored snapshot younger than the cache TTL is served as-is. Otherwise the
// pipeline runs: station metadata is fetched, the requested range is checked
// against the station's availability window, readings are fetched over the
// overlap, and the result is bucketed and summarized. Window problems and
// empty data come back as tagged snapshot statuses, not errors; only fetch
// failures surface as errors.
//
// A smooth value >= 2 applies a trailing moving average to the served series.
// Smoothing is presentation only and is never stored.
func (s *Service) Chart(ctx context.Context, code string, sel chartdata.Selector, smooth int) (storage.Snapshot, error) {
	cached, found, err := s.store.GetLatest(ctx, code, sel)
	if err != nil {
		s.logger.Warn("snapshot lookup failed, refreshing", "station", code, "range", sel, "error", err)
	}
	if err == nil && found && s.now().Sub(cached.GeneratedAt) <= s.cacheTTL {
		if s.metrics != nil {
			s.metrics.RecordCacheHit()
			s.metrics.SetSnapshotAge(s.now().Sub(cached.GeneratedAt).Seconds())
		}
		return s.smoothed(cached, smooth), nil
	}
	if s.metrics != nil {
		s.metrics.RecordCacheMiss()
	}

	snapshot, err := s.refresh(ctx, code, sel)
	if err != nil {
		return storage.Snapshot{}, err
	}

	if s.metrics != nil {
		s.metrics.SetSnapshotAge(0)
	}
	return s.smoothed(snapshot, smooth), nil
}

// refresh runs the full pipeline for one (station, range) key and stores the
// result if it is still the newest refresh for that key.
func (s *Service) refresh(ctx context.Context, code string, sel chartdata.Selector) (storage.Snapshot, error) {
	key := snapshotKey(code, sel)
	generation := s.nextGeneration(key)

	meta, err := s.Station(ctx, code)
	if err != nil {
		return storage.Snapshot{}, err
	}

	snapshot := storage.Snapshot{
		StationCode: code,
		Range:       sel,
		Unit:        meta.Unit,
		GeneratedAt: s.now(),
		Generation:  generation,
		Series:      chartdata.ChartSeries{},
	}

	window, err := meta.Window()
	if err != nil {
		snapshot.Status = chartdata.StatusInvalidWindow
		snapshot.Message = err.Error()
		s.storeIfLatest(ctx, key, generation, snapshot)
		return snapshot, nil
	}

	requestStart, requestEnd := sel.Resolve(s.now())

	status, message := chartdata.EvaluateWindow(window, requestStart, requestEnd)
	if status != chartdata.StatusOK {
		snapshot.Status = status
		snapshot.Message = message
		s.storeIfLatest(ctx, key, generation, snapshot)
		return snapshot, nil
	}

	candidates, err := s.fetchReadings(ctx, code, clampToWindow(window, requestStart, requestEnd))
	if err != nil {
		return storage.Snapshot{}, err
	}

	buildStart := s.now()
	result := chartdata.Build(candidates, sel)
	if s.metrics != nil {
		s.metrics.ObserveBuild(time.Since(buildStart).Seconds())
	}

	snapshot.Status = result.Status
	snapshot.Message = result.Message
	snapshot.Series = result.Series
	snapshot.Stats = result.Stats

	s.storeIfLatest(ctx, key, generation, snapshot)

	s.logger.Info("chart refreshed",
		"station", code,
		"range", sel,
		"status", snapshot.Status,
		"buckets", len(snapshot.Series),
		"generation", generation,
	)

	return snapshot, nil
}

// Seasonal returns the four-season aggregation for one station and range.
// Seasonal charts are recomputed on every request; they share the readings
// fetch and window checks with Chart but not the snapshot cache.
func (s *Service) Seasonal(ctx context.Context, code string, sel chartdata.Selector) (storage.Snapshot, error) {
	meta, err := s.Station(ctx, code)
	if err != nil {
		return storage.Snapshot{}, err
	}

	snapshot := storage.Snapshot{
		StationCode: code,
		Range:       sel,
		Unit:        meta.Unit,
		GeneratedAt: s.now(),
		Series:      chartdata.ChartSeries{},
	}

	window, err := meta.Window()
	if err != nil {
		snapshot.Status = chartdata.StatusInvalidWindow
		snapshot.Message = err.Error()
		return snapshot, nil
	}

	requestStart, requestEnd := sel.Resolve(s.now())

	status, message := chartdata.EvaluateWindow(window, requestStart, requestEnd)
	if status != chartdata.StatusOK {
		snapshot.Status = status
		snapshot.Message = message
		return snapshot, nil
	}

	candidates, err := s.fetchReadings(ctx, code, clampToWindow(window, requestStart, requestEnd))
	if err != nil {
		return storage.Snapshot{}, err
	}

	buildStart := s.now()
	readings := chartdata.Validate(candidates)
	snapshot.Series = chartdata.SeasonalSeries(readings, sel, s.now())
	if s.metrics != nil {
		s.metrics.ObserveBuild(time.Since(buildStart).Seconds())
	}

	if len(readings) == 0 {
		snapshot.Status = chartdata.StatusNoData
		snapshot.Message = "no groundwater data available for this station and time range"
	} else {
		snapshot.Status = chartdata.StatusOK
	}

	return snapshot, nil
}

type fetchSpan struct {
	start time.Time
	end   time.Time
}

// clampToWindow narrows the requested span to the station's availability
// window so the upstream is never asked for dates it has declared empty.
func clampToWindow(w chartdata.AvailabilityWindow, start, end time.Time) fetchSpan {
	if start.Before(w.From) {
		start = w.From
	}
	if end.After(w.Till) {
		end = w.Till
	}
	return fetchSpan{start: start, end: end}
}

func (s *Service) fetchReadings(ctx context.Context, code string, span fetchSpan) ([]chartdata.Candidate, error) {
	start := s.now()
	candidates, err := s.readings.Readings(ctx, code, span.start, span.end)
	if s.metrics != nil {
		s.metrics.ObserveFetch("readings", time.Since(start).Seconds())
	}
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordError("wris", "readings_fetch")
		}
		return nil, err
	}
	return candidates, nil
}

// storeIfLatest persists the snapshot unless a newer refresh for the same key
// has been claimed since this one started.
func (s *Service) storeIfLatest(ctx context.Context, key string, generation uint64, snapshot storage.Snapshot) {
	if s.latestGeneration(key) != generation {
		s.logger.Debug("discarding superseded snapshot", "key", key, "generation", generation)
		return
	}

	if err := s.store.Put(ctx, snapshot); err != nil {
		if s.metrics != nil {
			s.metrics.RecordError("store", "put_failed")
		}
		s.logger.Error("failed to store snapshot", "key", key, "error", err)
	}
}

// smoothed returns a copy of the snapshot with a trailing moving average
// applied when smooth >= 2. MovingAverage keeps the leading edge untouched
// and records each bucket's unsmoothed value alongside the smoothed one.
func (s *Service) smoothed(snapshot storage.Snapshot, smooth int) storage.Snapshot {
	if smooth < 2 {
		return snapshot
	}
	snapshot.Series = chartdata.MovingAverage(snapshot.Series, smooth)
	return snapshot
}
