package chartdata

import (
	"reflect"
	"testing"
	"time"
)

func TestSeasonalSeries_AlwaysFourBuckets(t *testing.T) {
	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

	series := SeasonalSeries(nil, Range1Y, now)

	want := ChartSeries{
		{Label: "Winter"},
		{Label: "Spring"},
		{Label: "Summer"},
		{Label: "Autumn"},
	}
	if !reflect.DeepEqual(series, want) {
		t.Errorf("empty input: series = %+v, want four zero buckets", series)
	}
}

func TestSeasonalSeries_AssignsByMonth(t *testing.T) {
	now := time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)
	readings := []Reading{
		readingAt("2024-01-15T00:00:00", 10.0), // Winter (Jan)
		readingAt("2024-12-15T00:00:00", 14.0), // Winter (Dec)
		readingAt("2024-04-10T00:00:00", 8.0),  // Spring
		readingAt("2024-07-20T00:00:00", 6.0),  // Summer
		readingAt("2024-10-05T00:00:00", 9.0),  // Autumn
	}

	series := SeasonalSeries(readings, Range1Y, now)

	want := ChartSeries{
		{Label: "Winter", Value: 12.0, SampleCount: 2},
		{Label: "Spring", Value: 8.0, SampleCount: 1},
		{Label: "Summer", Value: 6.0, SampleCount: 1},
		{Label: "Autumn", Value: 9.0, SampleCount: 1},
	}
	if !reflect.DeepEqual(series, want) {
		t.Errorf("series = %+v, want %+v", series, want)
	}
}

// Seasonal aggregation re-filters the raw readings by the selector's window;
// readings outside it must not leak into any season.
func TestSeasonalSeries_RefiltersByRange(t *testing.T) {
	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	readings := []Reading{
		readingAt("2024-06-10T00:00:00", 5.0), // inside 1M window
		readingAt("2023-06-10T00:00:00", 50.0),
		readingAt("2019-01-01T00:00:00", 99.0),
	}

	series := SeasonalSeries(readings, Range1M, now)

	if series[2].Label != "Summer" || series[2].Value != 5.0 || series[2].SampleCount != 1 {
		t.Errorf("summer bucket = %+v, want value 5 from the single in-range reading", series[2])
	}
	for _, i := range []int{0, 1, 3} {
		if series[i].SampleCount != 0 || series[i].Value != 0 {
			t.Errorf("%s bucket = %+v, want empty", series[i].Label, series[i])
		}
	}
}
