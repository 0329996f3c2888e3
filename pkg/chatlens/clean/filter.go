package clean

import "github.com/chatlens/chatlens/pkg/chatlens/chat"

// DeleteAuthor removes every row attributed to the given author. Absent
// authors are a no-op, so replays over already-filtered data are safe.
func DeleteAuthor(t chat.Table, author string) chat.Table {
	out := make(chat.Table, 0, len(t))
	for _, m := range t {
		if m.Author == author {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Alias maps a secondary author name onto its canonical one.
type Alias struct {
	Canonical string
	Alias     string
}

// MergeAuthors rewrites alias author names to their canonical form.
// Applying the same merges twice changes nothing.
func MergeAuthors(t chat.Table, aliases []Alias) chat.Table {
	canon := make(map[string]string, len(aliases))
	for _, a := range aliases {
		canon[a.Alias] = a.Canonical
	}

	out := make(chat.Table, len(t))
	for i, m := range t {
		if c, ok := canon[m.Author]; ok {
			m.Author = c
		}
		out[i] = m
	}
	return out
}

// DropEmpty removes rows whose text became empty after normalization.
func DropEmpty(t chat.Table) chat.Table {
	out := make(chat.Table, 0, len(t))
	for _, m := range t {
		if m.Text == "" {
			continue
		}
		out = append(out, m)
	}
	return out
}
