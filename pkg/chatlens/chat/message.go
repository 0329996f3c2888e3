package chat

import (
	"math"
	"time"
)

// Message is one row of the working table: the raw record plus the
// derived columns the cleaning stages fill in.
type Message struct {
	Timestamp time.Time
	Author    string
	Text      string

	// Derived during cleaning
	HasEmoji  bool
	Language  string
	Topic     string
	Date      time.Time // timestamp truncated to the day
	ISOWeek   int
	YearWeek  string
	Length    int
	LogLength float64
}

// WithDateFeatures returns a copy with Date, ISOWeek and YearWeek filled in
// from the timestamp.
func (m Message) WithDateFeatures() Message {
	m.Date = time.Date(m.Timestamp.Year(), m.Timestamp.Month(), m.Timestamp.Day(), 0, 0, 0, 0, m.Timestamp.Location())
	_, m.ISOWeek = m.Timestamp.ISOWeek()
	m.YearWeek = YearWeekKey(m.Timestamp)
	return m
}

// WithLengths returns a copy with Length and LogLength computed from the
// text. Length counts characters, not bytes. The log of an empty message
// is defined as zero so downstream means stay finite.
func (m Message) WithLengths() Message {
	m.Length = len([]rune(m.Text))
	if m.Length > 0 {
		m.LogLength = math.Log(float64(m.Length))
	} else {
		m.LogLength = 0
	}
	return m
}
