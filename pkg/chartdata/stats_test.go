package chartdata

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"testing"
)

func seriesOf(values ...float64) ChartSeries {
	s := make(ChartSeries, 0, len(values))
	for _, v := range values {
		s = append(s, Bucket{Value: v, SampleCount: 1})
	}
	return s
}

func rawPtr(v float64) *float64 { return &v }

func TestSummarize(t *testing.T) {
	stats := Summarize(seriesOf(2, 4, 4, 4, 5, 5, 7, 9))

	// Textbook population: mean 5, stddev 2.
	want := SummaryStatistics{Min: 2, Max: 9, Mean: 5, Median: 5, StdDev: 2, Range: 7}
	if !reflect.DeepEqual(stats, want) {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
}

func TestSummarize_PopulationStdDev(t *testing.T) {
	stats := Summarize(seriesOf(1, 2, 3, 4))

	// Population variance of 1..4 is 1.25; the sample formula would give
	// sqrt(5/3) instead.
	if got, want := stats.StdDev, round2(math.Sqrt(1.25)); got != want {
		t.Errorf("stdDev = %v, want %v (population)", got, want)
	}
}

func TestSummarize_MedianUpperMiddle(t *testing.T) {
	// Even-length series: the upper-middle element, not the average of the
	// two middles. 1,2,3,4 -> 3, not 2.5.
	if got := Summarize(seriesOf(4, 1, 3, 2)).Median; got != 3 {
		t.Errorf("even-length median = %v, want 3", got)
	}
	if got := Summarize(seriesOf(5, 1, 3)).Median; got != 3 {
		t.Errorf("odd-length median = %v, want 3", got)
	}
}

func TestSummarize_Empty(t *testing.T) {
	if got := Summarize(ChartSeries{}); got != (SummaryStatistics{}) {
		t.Errorf("Summarize(empty) = %+v, want zero value", got)
	}
}

func TestMovingAverage_NoOpOnShortSeries(t *testing.T) {
	series := seriesOf(9.1, 9.2, 9.3)

	got := MovingAverage(series, 5)

	if !reflect.DeepEqual(got, series) {
		t.Errorf("3-point series with window 5 changed: %+v", got)
	}
}

func TestMovingAverage(t *testing.T) {
	series := seriesOf(1, 2, 3, 4, 5)

	got := MovingAverage(series, 3)

	want := ChartSeries{
		{Value: 1, SampleCount: 1},
		{Value: 2, SampleCount: 1},
		{Value: 2, SampleCount: 1, Raw: rawPtr(3)},
		{Value: 3, SampleCount: 1, Raw: rawPtr(4)},
		{Value: 4, SampleCount: 1, Raw: rawPtr(5)},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("smoothed = %+v, want %+v", got, want)
	}

	// Input must not be mutated.
	if series[4].Value != 5 || series[4].Raw != nil {
		t.Errorf("input series mutated: %+v", series)
	}
}

func TestMovingAverage_DefaultWindow(t *testing.T) {
	series := seriesOf(1, 2, 3, 4, 5, 6)

	got := MovingAverage(series, 0)

	// Window defaults to 5: first four pass through, indexes 4 and 5 smooth.
	if got[3].Raw != nil || got[4].Raw == nil || *got[4].Raw != 5 || got[4].Value != 3 || got[5].Value != 4 {
		t.Errorf("default-window smoothing = %+v", got)
	}
}

func TestMovingAverage_ZeroRawSerializes(t *testing.T) {
	// An original value of exactly 0.00 must still reach tooltip consumers.
	got := MovingAverage(seriesOf(-1, 1, 0), 3)

	if got[2].Raw == nil || *got[2].Raw != 0 {
		t.Fatalf("smoothed = %+v, want Raw 0 on the last bucket", got)
	}

	data, err := json.Marshal(got[2])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"raw":0`) {
		t.Errorf("bucket JSON = %s, want a raw field", data)
	}

	// Pass-through buckets stay free of the field entirely.
	data, err = json.Marshal(got[0])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), `"raw"`) {
		t.Errorf("unsmoothed bucket JSON = %s, want no raw field", data)
	}
}
