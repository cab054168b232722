package chartdata

import (
	"sort"
	"time"
)

// Bucket is one aggregated point in a displayed series.
//
// Label is the human-readable axis tick, Value the arithmetic mean of the
// readings folded into the bucket (rounded to two decimals), and SampleCount
// how many readings it aggregates. Raw is nil except on series transformed
// by MovingAverage, where it retains the pre-smoothing value for tooltips.
// It is a pointer so an original value of exactly zero still serializes.
type Bucket struct {
	Label       string   `json:"label"`
	Value       float64  `json:"value"`
	SampleCount int      `json:"sampleCount"`
	Raw         *float64 `json:"raw,omitempty"`
}

// ChartSeries is an ordered sequence of buckets, ascending by time key.
// It is the pipeline's output artifact; presentation owns any further
// transformation such as label thinning.
type ChartSeries []Bucket

// Bucket caps per granularity: after sorting ascending by time key, only the
// chronologically latest N buckets are kept (oldest dropped first).
const (
	maxPointBuckets = 25
	maxDayBuckets   = 20
	maxWeekBuckets  = 15
	maxMonthBuckets = 8
	maxYearBuckets  = 5
)

// BuildSeries groups valid readings into buckets whose granularity depends on
// the selector, applying exactly one policy per selector:
//
//	1D, 5D    point-wise, capped at 25 points
//	1M        daily means (UTC calendar day), capped at 20 days
//	6M        weekly means (week starts Sunday), capped at 15 weeks
//	YTD, 1YR  monthly means, capped at 8 months
//	5YR       yearly means, capped at 5 years
//
// All reductions round to two decimals. An empty input yields an empty,
// non-nil series; the caller decides how to surface "no data".
func BuildSeries(readings []Reading, sel Selector) ChartSeries {
	if len(readings) == 0 {
		return ChartSeries{}
	}

	switch sel {
	case Range1D, Range5D:
		return pointSeries(readings, maxPointBuckets)
	case Range1M:
		return groupedSeries(readings, dayKey, dayLabel, maxDayBuckets)
	case Range6M:
		return groupedSeries(readings, weekKey, weekLabel, maxWeekBuckets)
	case RangeYTD, Range1Y:
		return groupedSeries(readings, monthKey, monthLabel, maxMonthBuckets)
	case Range5Y:
		return groupedSeries(readings, yearKey, yearLabel, maxYearBuckets)
	default:
		return pointSeries(readings, maxPointBuckets)
	}
}

// pointSeries emits one bucket per reading, latest limit readings only,
// labelled with the reading's time of day.
func pointSeries(readings []Reading, limit int) ChartSeries {
	sorted := make([]Reading, len(readings))
	copy(sorted, readings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	if len(sorted) > limit {
		sorted = sorted[len(sorted)-limit:]
	}

	series := make(ChartSeries, 0, len(sorted))
	for _, r := range sorted {
		series = append(series, Bucket{
			Label:       r.Timestamp.UTC().Format("15:04"),
			Value:       round2(r.Value),
			SampleCount: 1,
		})
	}
	return series
}

// groupedSeries reduces readings to per-key means. Keys must sort
// lexicographically in chronological order (ISO date prefixes do).
func groupedSeries(readings []Reading, key func(time.Time) string, label func(string) string, limit int) ChartSeries {
	groups := make(map[string][]float64)
	for _, r := range readings {
		k := key(r.Timestamp.UTC())
		groups[k] = append(groups[k], r.Value)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if len(keys) > limit {
		keys = keys[len(keys)-limit:]
	}

	series := make(ChartSeries, 0, len(keys))
	for _, k := range keys {
		values := groups[k]
		sum := 0.0
		for _, v := range values {
			sum += v
		}
		series = append(series, Bucket{
			Label:       label(k),
			Value:       round2(sum / float64(len(values))),
			SampleCount: len(values),
		})
	}
	return series
}

func dayKey(t time.Time) string { return t.Format("2006-01-02") }

func dayLabel(key string) string {
	t, _ := time.Parse("2006-01-02", key)
	return t.Format("Jan 2")
}

// weekKey returns the date of the Sunday starting the reading's week.
func weekKey(t time.Time) string {
	start := t.AddDate(0, 0, -int(t.Weekday()))
	return start.Format("2006-01-02")
}

func weekLabel(key string) string {
	t, _ := time.Parse("2006-01-02", key)
	return "W" + t.Format("Jan 2")
}

func monthKey(t time.Time) string { return t.Format("2006-01") }

func monthLabel(key string) string {
	t, _ := time.Parse("2006-01", key)
	return t.Format("Jan")
}

func yearKey(t time.Time) string { return t.Format("2006") }

func yearLabel(key string) string { return key }
