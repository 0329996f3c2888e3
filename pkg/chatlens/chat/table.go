package chat

import "time"

// Table is the working table: an ordered slice of messages. Cleaning
// stages take a table and return a new one; they never mutate their input.
type Table []Message

// Between selects rows inside a window, exclusive of the start and
// inclusive of the end.
func (t Table) Between(start, end time.Time) Table {
	out := make(Table, 0, len(t))
	for _, m := range t {
		if m.Timestamp.After(start) && !m.Timestamp.After(end) {
			out = append(out, m)
		}
	}
	return out
}

// Authors returns the distinct author names in first-seen order.
func (t Table) Authors() []string {
	seen := make(map[string]struct{}, 8)
	var out []string
	for _, m := range t {
		if _, ok := seen[m.Author]; ok {
			continue
		}
		seen[m.Author] = struct{}{}
		out = append(out, m.Author)
	}
	return out
}

// Span returns the earliest and latest timestamps in the table. ok is
// false for an empty table.
func (t Table) Span() (first, last time.Time, ok bool) {
	if len(t) == 0 {
		return time.Time{}, time.Time{}, false
	}
	first, last = t[0].Timestamp, t[0].Timestamp
	for _, m := range t[1:] {
		if m.Timestamp.Before(first) {
			first = m.Timestamp
		}
		if m.Timestamp.After(last) {
			last = m.Timestamp
		}
	}
	return first, last, true
}
