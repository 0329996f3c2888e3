package chat

import (
	"fmt"
	"time"
)

// YearWeekKey returns the sortable week key for a timestamp: the ISO year
// and zero-padded ISO week joined with a dash, e.g. "2022-03". Within a
// year lexicographic order equals chronological order.
func YearWeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-%02d", year, week)
}

// WeekKeysBetween lists every week key from the week containing first to
// the week containing last, inclusive. Used to zero-fill weekly series so
// silent weeks appear as explicit zero rows.
func WeekKeysBetween(first, last time.Time) []string {
	if last.Before(first) {
		first, last = last, first
	}

	var keys []string
	end := isoMonday(last)
	for cur := isoMonday(first); !cur.After(end); cur = cur.AddDate(0, 0, 7) {
		keys = append(keys, YearWeekKey(cur))
	}
	return keys
}

// isoMonday truncates a timestamp to the Monday of its ISO week.
func isoMonday(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	back := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -back)
}
