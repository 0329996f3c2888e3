package aggregate

import "github.com/chatlens/chatlens/pkg/chatlens/chat"

// WeeklySeries is message volume per week over a contiguous week range.
// Weeks and Counts are parallel; weeks with no traffic are explicit
// zeros, never gaps.
type WeeklySeries struct {
	Weeks  []string
	Counts []int
}

// WeeklyCounts buckets the table per week key and zero-fills every week
// between the earliest and latest timestamp. An empty table yields an
// empty series.
func WeeklyCounts(table chat.Table) WeeklySeries {
	first, last, ok := table.Span()
	if !ok {
		return WeeklySeries{}
	}

	byWeek := make(map[string]int, len(table))
	for _, m := range table {
		byWeek[chat.YearWeekKey(m.Timestamp)]++
	}

	weeks := chat.WeekKeysBetween(first, last)
	counts := make([]int, len(weeks))
	for i, wk := range weeks {
		counts[i] = byWeek[wk]
	}
	return WeeklySeries{Weeks: weeks, Counts: counts}
}

// MovingAverage smooths the counts with a trailing window mean. The
// first window-1 positions average over however many points exist so the
// output length matches the series length. A window below 2 returns the
// counts unchanged as floats.
func (s WeeklySeries) MovingAverage(window int) []float64 {
	out := make([]float64, len(s.Counts))
	if window < 2 {
		for i, c := range s.Counts {
			out[i] = float64(c)
		}
		return out
	}

	sum := 0
	for i, c := range s.Counts {
		sum += c
		if i >= window {
			sum -= s.Counts[i-window]
		}
		n := i + 1
		if n > window {
			n = window
		}
		out[i] = float64(sum) / float64(n)
	}
	return out
}
