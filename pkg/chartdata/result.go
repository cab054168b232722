package chartdata

import (
	"fmt"
	"time"
)

// Status tags a pipeline result. Expected conditions are statuses, not
// errors: callers can always distinguish "no data exists" from a failure
// without unwrapping anything.
type Status string

const (
	// StatusOK means the series contains at least one bucket.
	StatusOK Status = "ok"
	// StatusNoData means the request was valid but no bucket resulted,
	// either because the provider returned nothing or because every
	// candidate reading was malformed.
	StatusNoData Status = "no_data"
	// StatusInvalidWindow means the station metadata declares an
	// availability window whose start is after its end. Non-retryable.
	StatusInvalidWindow Status = "invalid_window"
	// StatusNoOverlap means the requested range has zero intersection with
	// the station's declared availability window. Non-retryable for that
	// selector; the message names the actual window.
	StatusNoOverlap Status = "no_overlap"
)

// AvailabilityWindow is the span of time for which a station is known to
// have any sensor data, as declared by its metadata.
type AvailabilityWindow struct {
	From time.Time
	Till time.Time
}

// Result is the pipeline's tagged output: a status plus the series and
// statistics when the status is ok, or a human-readable message otherwise.
type Result struct {
	Status  Status            `json:"status"`
	Series  ChartSeries       `json:"series"`
	Stats   SummaryStatistics `json:"stats"`
	Message string            `json:"message,omitempty"`
}

// EvaluateWindow performs the range overlap check against a station's
// availability window, before any readings are fetched.
//
// It returns StatusInvalidWindow when the window itself is inconsistent
// (from after till), StatusNoOverlap when the requested range cannot
// intersect data known to exist, and StatusOK otherwise. The returned
// message is suitable for surfacing to a user as-is.
func EvaluateWindow(w AvailabilityWindow, requestStart, requestEnd time.Time) (Status, string) {
	if w.From.After(w.Till) {
		return StatusInvalidWindow, fmt.Sprintf(
			"station reports an inconsistent availability window (%s after %s)",
			w.From.Format("2006-01-02"), w.Till.Format("2006-01-02"))
	}
	if requestEnd.Before(w.From) || requestStart.After(w.Till) {
		return StatusNoOverlap, fmt.Sprintf(
			"no data in the selected range; station data is available from %s to %s",
			w.From.Format("2006-01-02"), w.Till.Format("2006-01-02"))
	}
	return StatusOK, ""
}

// Build runs validation, bucketing, and summary statistics over raw
// candidates for one selector. It never fails: malformed candidates are
// dropped, and an input that yields zero buckets produces StatusNoData with
// an empty series rather than an error. Fetch failures are the provider's
// concern and must not be funnelled through here.
func Build(candidates []Candidate, sel Selector) Result {
	readings := Validate(candidates)
	if len(readings) == 0 {
		msg := "no groundwater data available for this station and time range"
		if len(candidates) > 0 {
			msg = "no valid data points found after processing"
		}
		return Result{Status: StatusNoData, Series: ChartSeries{}, Message: msg}
	}

	series := BuildSeries(readings, sel)
	if len(series) == 0 {
		return Result{
			Status:  StatusNoData,
			Series:  ChartSeries{},
			Message: "no groundwater data available for this station and time range",
		}
	}

	return Result{Status: StatusOK, Series: series, Stats: Summarize(series)}
}
