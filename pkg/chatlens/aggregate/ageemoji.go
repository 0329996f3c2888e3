package aggregate

import (
	"sort"

	"github.com/chatlens/chatlens/pkg/chatlens/chat"
)

// Emoji status labels in the age/emoji table.
const (
	WithEmoji    = "With emoji"
	WithoutEmoji = "Without emoji"
)

// Age group labels.
const (
	GroupTeenager = "Teenager"
	GroupAdult    = "Adult"
)

// AgeEmojiRow is one cell of the age/emoji table: mean log message
// length for one (age, emoji status) group.
type AgeEmojiRow struct {
	Age           int
	AgeGroup      string
	EmojiStatus   string
	MeanLogLength float64
	Count         int
}

// MeanLogLengthByAgeEmoji groups messages by author age and emoji
// status and averages log message length per group. Age is the message
// year minus the author's birth year. Messages from authors without a
// birth year are excluded and counted in missing; they never enter any
// group. Rows come back sorted by age, then status.
func MeanLogLengthByAgeEmoji(table chat.Table, birthYears map[string]int, adultAge int) (rows []AgeEmojiRow, missing int) {
	type key struct {
		age      int
		hasEmoji bool
	}
	type acc struct {
		sum   float64
		count int
	}
	groups := make(map[key]*acc)

	for _, m := range table {
		birth, ok := birthYears[m.Author]
		if !ok {
			missing++
			continue
		}
		k := key{age: m.Timestamp.Year() - birth, hasEmoji: m.HasEmoji}
		a, ok := groups[k]
		if !ok {
			a = &acc{}
			groups[k] = a
		}
		a.sum += m.LogLength
		a.count++
	}

	rows = make([]AgeEmojiRow, 0, len(groups))
	for k, a := range groups {
		status := WithoutEmoji
		if k.hasEmoji {
			status = WithEmoji
		}
		group := GroupAdult
		if k.age < adultAge {
			group = GroupTeenager
		}
		rows = append(rows, AgeEmojiRow{
			Age:           k.age,
			AgeGroup:      group,
			EmojiStatus:   status,
			MeanLogLength: a.sum / float64(a.count),
			Count:         a.count,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Age != rows[j].Age {
			return rows[i].Age < rows[j].Age
		}
		return rows[i].EmojiStatus < rows[j].EmojiStatus
	})
	return rows, missing
}
