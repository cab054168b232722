// Package chartdata implements the chart-data aggregation pipeline for
// groundwater monitoring stations.
//
// The pipeline is strictly synchronous and performs no I/O. Given a raw,
// time-unordered list of sensor readings and a time-range selector it:
//
//  1. validates and filters the raw candidates (Validate)
//  2. groups the valid readings into range-dependent buckets (BuildSeries)
//  3. derives summary statistics and an optional moving average on demand
//     (Summarize, MovingAverage, SeasonalSeries)
//
// All stages are pure functions: the same input always produces the same
// output, and nothing is cached between calls. Callers own fetching the raw
// data and rendering the resulting series.
package chartdata

import (
	"math"
	"strconv"
	"time"
)

// Reading is one validated observation: an instant and a finite value.
type Reading struct {
	Timestamp time.Time
	Value     float64
}

// Candidate is one raw, untrusted observation as returned by a reading
// provider. DataTime is an arbitrary timestamp representation (timestamp
// string or epoch seconds) and DataValue an arbitrary JSON value; neither is
// trusted until Validate has accepted it.
type Candidate struct {
	DataTime  string
	DataValue any
}

// candidateTimeLayouts are the timestamp formats accepted at the ingestion
// boundary, tried in order. The WRIS API itself emits the first form.
var candidateTimeLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseInstant parses a candidate timestamp. It accepts the layouts in
// candidateTimeLayouts plus bare Unix seconds. Layouts without an explicit
// zone are interpreted as UTC.
func ParseInstant(s string) (time.Time, bool) {
	for _, layout := range candidateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	if sec, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(sec) && !math.IsInf(sec, 0) {
		return time.Unix(int64(sec), 0).UTC(), true
	}
	return time.Time{}, false
}

// Validate filters raw candidates down to valid readings.
//
// A candidate is valid iff its timestamp parses to an instant and its value
// is a finite number (not NaN, not +/-Inf, not a non-numeric type). Numeric
// strings are coerced, matching the loosely typed upstream API. The result
// preserves input order; an empty result is not an error, downstream stages
// short-circuit on it.
func Validate(candidates []Candidate) []Reading {
	readings := make([]Reading, 0, len(candidates))
	for _, c := range candidates {
		if c.DataTime == "" {
			continue
		}
		ts, ok := ParseInstant(c.DataTime)
		if !ok {
			continue
		}
		v, ok := coerceValue(c.DataValue)
		if !ok {
			continue
		}
		readings = append(readings, Reading{Timestamp: ts, Value: v})
	}
	return readings
}

// coerceValue extracts a finite float64 from an untrusted JSON value.
func coerceValue(v any) (float64, bool) {
	var f float64
	switch vv := v.(type) {
	case float64:
		f = vv
	case float32:
		f = float64(vv)
	case int:
		f = float64(vv)
	case int64:
		f = float64(vv)
	case string:
		parsed, err := strconv.ParseFloat(vv, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// round2 rounds to two decimal places, the display precision for every
// reduced bucket value.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
