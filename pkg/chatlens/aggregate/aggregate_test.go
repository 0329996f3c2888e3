package aggregate

import (
	"math"
	"testing"
	"time"

	"github.com/chatlens/chatlens/pkg/chatlens/chat"
	"github.com/chatlens/chatlens/pkg/chatlens/topics"
)

func ts(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestLanguageShareByAuthor(t *testing.T) {
	table := chat.Table{
		{Author: "anna", Language: "NL"},
		{Author: "anna", Language: "IT"},
		{Author: "anna", Language: "Non-verbal"},
		{Author: "anna", Language: "NL"},
		{Author: "bram", Language: "Non-verbal"},
		{Author: "bram", Language: "NL"},
	}

	rows := LanguageShareByAuthor(table, "Non-verbal")
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	// anna: 3 verbal of 4 = 75%, bram: 1 of 2 = 50%. Sorted descending.
	if rows[0].Author != "anna" || rows[1].Author != "bram" {
		t.Fatalf("unexpected order: %s, %s", rows[0].Author, rows[1].Author)
	}
	if math.Abs(rows[0].Verbal-75) > 1e-9 || math.Abs(rows[0].NonVerbal-25) > 1e-9 {
		t.Errorf("anna: got %.1f/%.1f, want 75/25", rows[0].Verbal, rows[0].NonVerbal)
	}
	if math.Abs(rows[1].Verbal-50) > 1e-9 {
		t.Errorf("bram: got %.1f verbal, want 50", rows[1].Verbal)
	}
	for _, r := range rows {
		if math.Abs(r.Verbal+r.NonVerbal-100) > 1e-9 {
			t.Errorf("%s: percentages sum to %.2f, want 100", r.Author, r.Verbal+r.NonVerbal)
		}
	}
}

func TestWeeklyCountsZeroFill(t *testing.T) {
	// Messages only in the first and fifth of five consecutive weeks.
	table := chat.Table{
		{Timestamp: ts("2022-01-05 10:00:00")},
		{Timestamp: ts("2022-01-06 10:00:00")},
		{Timestamp: ts("2022-02-02 10:00:00")},
	}

	series := WeeklyCounts(table)
	if len(series.Weeks) != 5 {
		t.Fatalf("expected 5 weeks, got %d: %v", len(series.Weeks), series.Weeks)
	}
	wantCounts := []int{2, 0, 0, 0, 1}
	for i, want := range wantCounts {
		if series.Counts[i] != want {
			t.Errorf("week %s: count %d, want %d", series.Weeks[i], series.Counts[i], want)
		}
	}
}

func TestWeeklyCountsEmpty(t *testing.T) {
	series := WeeklyCounts(chat.Table{})
	if len(series.Weeks) != 0 || len(series.Counts) != 0 {
		t.Errorf("expected empty series, got %v", series)
	}
}

func TestMovingAverage(t *testing.T) {
	s := WeeklySeries{Counts: []int{4, 0, 2, 6}}
	got := s.MovingAverage(2)
	want := []float64{4, 2, 1, 4}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("index %d: got %.2f, want %.2f", i, got[i], want[i])
		}
	}

	// Window 1 returns the raw counts.
	raw := s.MovingAverage(1)
	for i, c := range s.Counts {
		if raw[i] != float64(c) {
			t.Errorf("index %d: got %.2f, want %d", i, raw[i], c)
		}
	}
}

func TestHourlyByTopic(t *testing.T) {
	tagger, err := topics.NewTagger([]topics.Topic{
		{Name: "Food", Keywords: []string{"pizza"}},
	}, "Other")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var table chat.Table
	for i := 0; i < 10; i++ {
		table = append(table, chat.Message{Timestamp: ts("2022-01-05 12:00:00"), Text: "pizza"})
	}
	for h := 0; h < 10; h++ {
		table = append(table, chat.Message{
			Timestamp: time.Date(2022, 1, 5, h, 0, 0, 0, time.UTC),
			Text:      "iets anders",
		})
	}

	_, part, err := tagger.Tag(table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	share := HourlyByTopic(part)
	if share.Share["Food"][12] != 100 {
		t.Errorf("hour 12 Food share = %.1f, want 100", share.Share["Food"][12])
	}
	for h := 0; h < 10; h++ {
		if share.Share["Other"][h] != 100 {
			t.Errorf("hour %d Other share = %.1f, want 100", h, share.Share["Other"][h])
		}
	}
	// Hours with no traffic are zero for every topic, never NaN.
	for h := 13; h < 24; h++ {
		for _, topic := range share.Topics {
			v := share.Share[topic][h]
			if v != 0 || math.IsNaN(v) {
				t.Errorf("hour %d topic %s share = %v, want 0", h, topic, v)
			}
		}
	}
}

func TestMeanLogLengthByAgeEmoji(t *testing.T) {
	birthYears := map[string]int{"anna": 2008, "karel": 1975}
	table := chat.Table{
		{Author: "anna", Timestamp: ts("2022-06-01 10:00:00"), HasEmoji: true, LogLength: 2},
		{Author: "anna", Timestamp: ts("2022-06-02 10:00:00"), HasEmoji: true, LogLength: 4},
		{Author: "anna", Timestamp: ts("2022-06-03 10:00:00"), HasEmoji: false, LogLength: 1},
		{Author: "karel", Timestamp: ts("2022-06-01 10:00:00"), HasEmoji: false, LogLength: 3},
		{Author: "ghost", Timestamp: ts("2022-06-01 10:00:00"), HasEmoji: false, LogLength: 9},
	}

	rows, missing := MeanLogLengthByAgeEmoji(table, birthYears, 20)
	if missing != 1 {
		t.Errorf("missing = %d, want 1", missing)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 groups, got %d: %v", len(rows), rows)
	}

	// Sorted by age: anna (14) before karel (47).
	if rows[0].Age != 14 || rows[0].AgeGroup != GroupTeenager {
		t.Errorf("row 0: age %d group %s", rows[0].Age, rows[0].AgeGroup)
	}
	if rows[2].Age != 47 || rows[2].AgeGroup != GroupAdult {
		t.Errorf("row 2: age %d group %s", rows[2].Age, rows[2].AgeGroup)
	}

	for _, r := range rows {
		if r.Age == 14 && r.EmojiStatus == WithEmoji {
			if math.Abs(r.MeanLogLength-3) > 1e-9 || r.Count != 2 {
				t.Errorf("with-emoji group: mean %.2f count %d", r.MeanLogLength, r.Count)
			}
		}
	}
}

func TestTopAuthors(t *testing.T) {
	table := chat.Table{
		{Author: "anna"}, {Author: "bram"}, {Author: "anna"},
		{Author: "anna"}, {Author: "bram"}, {Author: "carla"},
	}
	top := TopAuthors(table, 2)
	if len(top) != 2 || top[0] != "anna" || top[1] != "bram" {
		t.Errorf("unexpected top authors: %v", top)
	}
}
