package chartdata

import (
	"fmt"
	"strings"
	"time"
)

// Selector identifies one of the fixed chart time ranges a user can pick.
// Each selector maps to exactly one lookback window and one bucketing
// granularity (see BuildSeries).
type Selector string

const (
	Range1D  Selector = "1D"
	Range5D  Selector = "5D"
	Range1M  Selector = "1M"
	Range6M  Selector = "6M"
	RangeYTD Selector = "YTD"
	Range1Y  Selector = "1YR"
	Range5Y  Selector = "5YR"
)

// Selectors lists every valid selector in display order.
var Selectors = []Selector{Range1D, Range5D, Range1M, Range6M, RangeYTD, Range1Y, Range5Y}

// ParseSelector parses a selector from user input. Matching is
// case-insensitive and ignores surrounding whitespace.
//
// Returns an error naming the valid selectors if the input is not one of them.
func ParseSelector(s string) (Selector, error) {
	sel := Selector(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Selectors {
		if sel == known {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown range %q: must be one of 1D, 5D, 1M, 6M, YTD, 1YR, 5YR", s)
}

// Resolve computes the query window for the selector relative to now.
// The end of the window is always now itself.
//
// Day-based selectors (1D, 5D) subtract a fixed number of hours. Month- and
// year-based selectors use calendar arithmetic (AddDate), not fixed day
// counts, so that the window lines up with the calendar buckets the series
// is later grouped into. YTD starts at January 1 of the current year.
func (s Selector) Resolve(now time.Time) (start, end time.Time) {
	end = now
	switch s {
	case Range1D:
		start = now.Add(-24 * time.Hour)
	case Range5D:
		start = now.Add(-5 * 24 * time.Hour)
	case Range1M:
		start = now.AddDate(0, -1, 0)
	case Range6M:
		start = now.AddDate(0, -6, 0)
	case RangeYTD:
		start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	case Range1Y:
		start = now.AddDate(-1, 0, 0)
	case Range5Y:
		start = now.AddDate(-5, 0, 0)
	default:
		start = now.Add(-24 * time.Hour)
	}
	return start, end
}
