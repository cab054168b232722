package chartdata

import (
	"math"
	"sort"
)

// SummaryStatistics is a read-only snapshot derived from a full bucketed
// series. It is recomputed on every request and never cached across series
// changes.
//
// StdDev is the population standard deviation (divide by n, not n-1). For an
// even-length series Median is the upper-middle element of the value-sorted
// copy, not the average of the two middles; callers depending on exact median
// semantics should note this.
type SummaryStatistics struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"stdDev"`
	Range  float64 `json:"range"`
}

// Summarize computes summary statistics over the series' bucket values.
// Statistics are taken over the bucketed series as displayed, not over the
// underlying raw readings, and not over a moving-average transform of it.
// An empty series yields the zero value.
func Summarize(series ChartSeries) SummaryStatistics {
	if len(series) == 0 {
		return SummaryStatistics{}
	}

	values := make([]float64, len(series))
	min, max, sum := series[0].Value, series[0].Value, 0.0
	for i, b := range series {
		values[i] = b.Value
		sum += b.Value
		if b.Value < min {
			min = b.Value
		}
		if b.Value > max {
			max = b.Value
		}
	}
	n := float64(len(values))
	mean := sum / n

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}

	sort.Float64s(values)

	return SummaryStatistics{
		Min:    round2(min),
		Max:    round2(max),
		Mean:   round2(mean),
		Median: round2(values[len(values)/2]),
		StdDev: round2(math.Sqrt(variance / n)),
		Range:  round2(max - min),
	}
}

// DefaultSmoothingWindow is the moving-average window used when the caller
// does not request a specific one.
const DefaultSmoothingWindow = 5

// MovingAverage smooths a series with a trailing window of windowSize
// original values.
//
// A series shorter than the window is returned unchanged (no-op, not an
// error). Otherwise each bucket at index >= windowSize-1 has its value
// replaced by the mean of the trailing window, with the pre-smoothing value
// retained in Raw. The leading windowSize-1 buckets pass through unchanged;
// no shrinking-window average is computed for them.
func MovingAverage(series ChartSeries, windowSize int) ChartSeries {
	if windowSize <= 0 {
		windowSize = DefaultSmoothingWindow
	}
	if len(series) < windowSize {
		return series
	}

	out := make(ChartSeries, len(series))
	copy(out, series)

	for i := windowSize - 1; i < len(series); i++ {
		sum := 0.0
		for j := i - windowSize + 1; j <= i; j++ {
			sum += series[j].Value
		}
		raw := series[i].Value
		out[i].Raw = &raw
		out[i].Value = round2(sum / float64(windowSize))
	}
	return out
}
