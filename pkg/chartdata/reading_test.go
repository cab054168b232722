package chartdata

import (
	"math"
	"testing"
	"time"
)

func TestParseInstant(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
		ok    bool
	}{
		{"2024-01-01T06:00:00", time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC), true},
		{"2024-01-01T06:00:00Z", time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC), true},
		{"2024-01-01 06:00:00", time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC), true},
		{"2024-01-01", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"1704088800", time.Unix(1704088800, 0).UTC(), true},
		{"yesterday", time.Time{}, false},
		{"", time.Time{}, false},
	}

	for _, tt := range tests {
		got, ok := ParseInstant(tt.input)
		if ok != tt.ok {
			t.Errorf("ParseInstant(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			continue
		}
		if ok && !got.Equal(tt.want) {
			t.Errorf("ParseInstant(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	candidates := []Candidate{
		{DataTime: "2024-01-01T00:00:00", DataValue: 9.44},
		{DataTime: "not-a-time", DataValue: 9.40},
		{DataTime: "2024-01-01T06:00:00", DataValue: math.NaN()},
		{DataTime: "2024-01-01T12:00:00", DataValue: math.Inf(1)},
		{DataTime: "2024-01-01T18:00:00", DataValue: "9.35"},
		{DataTime: "", DataValue: 9.30},
		{DataTime: "2024-01-02T00:00:00", DataValue: nil},
		{DataTime: "2024-01-02T06:00:00", DataValue: "n/a"},
		{DataTime: "2024-01-02T12:00:00", DataValue: 9.29},
	}

	got := Validate(candidates)
	if len(got) != 3 {
		t.Fatalf("Validate() kept %d readings, want 3: %v", len(got), got)
	}
	if got[0].Value != 9.44 || got[1].Value != 9.35 || got[2].Value != 9.29 {
		t.Errorf("Validate() values = %v, %v, %v", got[0].Value, got[1].Value, got[2].Value)
	}
	if !got[1].Timestamp.Equal(time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC)) {
		t.Errorf("coerced string reading has timestamp %v", got[1].Timestamp)
	}
}

// Every malformed candidate must be excluded from every downstream bucket:
// the bucket sample counts have to sum to the number of valid readings.
func TestValidate_PurityThroughBucketing(t *testing.T) {
	candidates := []Candidate{
		{DataTime: "2024-03-01T00:00:00", DataValue: 10.0},
		{DataTime: "2024-03-01T12:00:00", DataValue: math.NaN()},
		{DataTime: "2024-03-02T00:00:00", DataValue: 11.0},
		{DataTime: "garbage", DataValue: 12.0},
		{DataTime: "2024-03-02T12:00:00", DataValue: 13.0},
	}

	readings := Validate(candidates)
	series := BuildSeries(readings, Range1M)

	total := 0
	for _, b := range series {
		total += b.SampleCount
	}
	if total != len(readings) {
		t.Errorf("sampleCount sum = %d, want %d valid readings", total, len(readings))
	}
	if len(readings) != 3 {
		t.Errorf("valid readings = %d, want 3", len(readings))
	}
}

func TestValidate_Empty(t *testing.T) {
	if got := Validate(nil); len(got) != 0 {
		t.Errorf("Validate(nil) = %v, want empty", got)
	}
	if got := Validate([]Candidate{{DataTime: "bad", DataValue: "bad"}}); len(got) != 0 {
		t.Errorf("Validate(all invalid) = %v, want empty", got)
	}
}
