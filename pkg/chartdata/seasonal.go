package chartdata

import "time"

// Season names in emission order. Meteorological seasons: Winter is
// December through February, Spring March–May, Summer June–August,
// Autumn September–November.
var seasonNames = []string{"Winter", "Spring", "Summer", "Autumn"}

// seasonIndex maps a month to its position in seasonNames.
func seasonIndex(m time.Month) int {
	switch m {
	case time.December, time.January, time.February:
		return 0
	case time.March, time.April, time.May:
		return 1
	case time.June, time.July, time.August:
		return 2
	default:
		return 3
	}
}

// SeasonalSeries aggregates readings into meteorological seasons by month of
// timestamp. It is a separate pass over the original validated readings, not
// a re-bucketing of BuildSeries output: the readings are first re-filtered to
// the selector's window resolved at now, then assigned to seasons.
//
// The result always contains exactly four buckets, Winter through Autumn,
// even when a season has no samples (value 0, sample count 0). Values are
// means rounded to two decimals.
func SeasonalSeries(readings []Reading, sel Selector, now time.Time) ChartSeries {
	start, end := sel.Resolve(now)

	sums := [4]float64{}
	counts := [4]int{}
	for _, r := range readings {
		if r.Timestamp.Before(start) || r.Timestamp.After(end) {
			continue
		}
		i := seasonIndex(r.Timestamp.UTC().Month())
		sums[i] += r.Value
		counts[i]++
	}

	series := make(ChartSeries, 0, len(seasonNames))
	for i, name := range seasonNames {
		b := Bucket{Label: name}
		if counts[i] > 0 {
			b.Value = round2(sums[i] / float64(counts[i]))
			b.SampleCount = counts[i]
		}
		series = append(series, b)
	}
	return series
}
