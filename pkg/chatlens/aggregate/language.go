// Package aggregate turns the enriched working table into the summary
// tables the visualization layer consumes. Every function is stateless:
// table in, value out.
package aggregate

import (
	"sort"

	"github.com/chatlens/chatlens/pkg/chatlens/chat"
)

// AuthorShare is one row of the language-share table: per-author
// percentages of verbal and non-verbal messages. Verbal merges every
// concrete language label.
type AuthorShare struct {
	Author    string
	Verbal    float64
	NonVerbal float64
	Total     int
}

// LanguageShareByAuthor computes per-author verbal/non-verbal
// percentages, sorted by verbal share descending. Percentages are of the
// author's own message count, so each row sums to 100 (an author with no
// rows never appears).
func LanguageShareByAuthor(table chat.Table, nonVerbalLabel string) []AuthorShare {
	type counts struct {
		verbal, nonVerbal int
	}
	byAuthor := make(map[string]*counts)
	var order []string

	for _, m := range table {
		c, ok := byAuthor[m.Author]
		if !ok {
			c = &counts{}
			byAuthor[m.Author] = c
			order = append(order, m.Author)
		}
		if m.Language == nonVerbalLabel {
			c.nonVerbal++
		} else {
			c.verbal++
		}
	}

	out := make([]AuthorShare, 0, len(order))
	for _, author := range order {
		c := byAuthor[author]
		total := c.verbal + c.nonVerbal
		out = append(out, AuthorShare{
			Author:    author,
			Verbal:    float64(c.verbal) / float64(total) * 100,
			NonVerbal: float64(c.nonVerbal) / float64(total) * 100,
			Total:     total,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Verbal > out[j].Verbal
	})
	return out
}

// TopAuthors returns the k most active authors by message count,
// descending. Ties keep first-seen order.
func TopAuthors(table chat.Table, k int) []string {
	counts := make(map[string]int)
	var order []string
	for _, m := range table {
		if _, ok := counts[m.Author]; !ok {
			order = append(order, m.Author)
		}
		counts[m.Author]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if k > 0 && len(order) > k {
		order = order[:k]
	}
	return order
}
