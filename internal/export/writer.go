package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/chatlens/chatlens/pkg/chatlens/chat"
)

// WriteMessagesCSV writes the enriched table as a flat CSV for
// inspection. The SQLite store is the source of truth; this file is the
// secondary export.
func WriteMessagesCSV(path string, table chat.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create flat export: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"timestamp", "author", "message", "has_emoji", "language", "topic", "iso_week", "year_week", "length", "log_length"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, m := range table {
		record := []string{
			m.Timestamp.Format(time.RFC3339),
			m.Author,
			m.Text,
			strconv.FormatBool(m.HasEmoji),
			m.Language,
			m.Topic,
			strconv.Itoa(m.ISOWeek),
			m.YearWeek,
			strconv.Itoa(m.Length),
			strconv.FormatFloat(m.LogLength, 'f', 6, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// WriteTable writes one summary table as CSV: a header row plus rows of
// already-formatted cells. Report generation formats its own cells so
// the aggregators stay presentation-free.
func WriteTable(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create summary export: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
