// Package export loads raw chat exports into the working table and
// writes flat files for inspection. Loaders reject malformed rows with
// a counted, logged drop instead of letting bad values reach the
// pipeline.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/chatlens/chatlens/pkg/chatlens/chat"
	"github.com/chatlens/chatlens/pkg/chatlens/config"
	"github.com/chatlens/chatlens/pkg/chatlens/internalerr"
)

// LoadStats counts what a loader accepted and rejected.
type LoadStats struct {
	RowsRead     int
	RowsRejected int
}

// LoadCSV reads a CSV export. The header row is matched against the
// configured column mapping, so the physical column names and order are
// free. Rows with an unparseable timestamp or an empty author are
// counted in RowsRejected and dropped.
func LoadCSV(path string, cols config.Columns, layout string) (chat.Table, LoadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("open export: %w", err)
	}
	defer f.Close()
	return ReadCSV(f, cols, layout)
}

// ReadCSV is LoadCSV over an open reader.
func ReadCSV(r io.Reader, cols config.Columns, layout string) (chat.Table, LoadStats, error) {
	var stats LoadStats

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, stats, fmt.Errorf("%w: reading header: %v", internalerr.ErrInvalidInput, err)
	}

	idx := map[string]int{}
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	tsIdx, ok := idx[cols.Timestamp]
	if !ok {
		return nil, stats, fmt.Errorf("%w: missing column %q", internalerr.ErrInvalidInput, cols.Timestamp)
	}
	authorIdx, ok := idx[cols.Author]
	if !ok {
		return nil, stats, fmt.Errorf("%w: missing column %q", internalerr.ErrInvalidInput, cols.Author)
	}
	msgIdx, ok := idx[cols.Message]
	if !ok {
		return nil, stats, fmt.Errorf("%w: missing column %q", internalerr.ErrInvalidInput, cols.Message)
	}

	var table chat.Table
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			stats.RowsRejected++
			continue
		}
		stats.RowsRead++

		if len(record) <= tsIdx || len(record) <= authorIdx || len(record) <= msgIdx {
			stats.RowsRejected++
			continue
		}

		ts, err := time.Parse(layout, strings.TrimSpace(record[tsIdx]))
		if err != nil {
			stats.RowsRejected++
			continue
		}
		author := strings.TrimSpace(record[authorIdx])
		if author == "" {
			stats.RowsRejected++
			continue
		}

		table = append(table, chat.Message{
			Timestamp: ts,
			Author:    author,
			Text:      record[msgIdx],
		})
	}
	return table, stats, nil
}
