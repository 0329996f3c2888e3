package sqlite

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/chatlens/chatlens/pkg/chatlens/chat"
	"github.com/chatlens/chatlens/pkg/chatlens/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite database with WAL mode enabled and creates the
// schema if needed.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS messages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ts TEXT NOT NULL,
	author TEXT NOT NULL,
	text TEXT NOT NULL,
	has_emoji INTEGER NOT NULL DEFAULT 0,
	language TEXT NOT NULL DEFAULT '',
	topic TEXT NOT NULL DEFAULT '',
	iso_week INTEGER NOT NULL DEFAULT 0,
	year_week TEXT NOT NULL DEFAULT '',
	length INTEGER NOT NULL DEFAULT 0,
	log_length REAL NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_messages_year_week ON messages(year_week);
CREATE INDEX IF NOT EXISTS idx_messages_author ON messages(author);

CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	cleaned_at TEXT NOT NULL,
	row_count INTEGER NOT NULL
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

const timeFormat = time.RFC3339Nano

// ReplaceMessages swaps the stored table inside one transaction, so a
// failed run never leaves a half-written table behind.
func (s *sqliteStore) ReplaceMessages(ctx context.Context, run store.RunInfo, msgs chat.Table) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM messages"); err != nil {
		return err
	}

	const insert = `
INSERT INTO messages (ts, author, text, has_emoji, language, topic, iso_week, year_week, length, log_length)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, m := range msgs {
		hasEmoji := 0
		if m.HasEmoji {
			hasEmoji = 1
		}
		_, err := stmt.ExecContext(ctx,
			m.Timestamp.Format(timeFormat), m.Author, m.Text, hasEmoji,
			m.Language, m.Topic, m.ISOWeek, m.YearWeek, m.Length, m.LogLength)
		if err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO runs (id, cleaned_at, row_count) VALUES (?, ?, ?)",
		run.ID, run.CleanedAt.Format(timeFormat), len(msgs))
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Messages loads the stored table in timestamp order.
func (s *sqliteStore) Messages(ctx context.Context) (chat.Table, error) {
	const query = `
SELECT ts, author, text, has_emoji, language, topic, iso_week, year_week, length, log_length
FROM messages ORDER BY ts, id;`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out chat.Table
	for rows.Next() {
		var (
			m        chat.Message
			ts       string
			hasEmoji int
		)
		err := rows.Scan(&ts, &m.Author, &m.Text, &hasEmoji,
			&m.Language, &m.Topic, &m.ISOWeek, &m.YearWeek, &m.Length, &m.LogLength)
		if err != nil {
			return nil, err
		}
		m.HasEmoji = hasEmoji != 0
		m.Timestamp, err = time.Parse(timeFormat, ts)
		if err != nil {
			return nil, err
		}
		m.Date = time.Date(m.Timestamp.Year(), m.Timestamp.Month(), m.Timestamp.Day(), 0, 0, 0, 0, m.Timestamp.Location())
		out = append(out, m)
	}
	return out, rows.Err()
}

// Count reports the stored row count.
func (s *sqliteStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM messages").Scan(&n)
	return n, err
}

// LastRun reports the most recent cleaning run.
func (s *sqliteStore) LastRun(ctx context.Context) (store.RunInfo, bool, error) {
	const query = `SELECT id, cleaned_at, row_count FROM runs ORDER BY cleaned_at DESC, id DESC LIMIT 1;`

	var (
		run       store.RunInfo
		cleanedAt string
	)
	err := s.db.QueryRowContext(ctx, query).Scan(&run.ID, &cleanedAt, &run.Rows)
	if err == sql.ErrNoRows {
		return store.RunInfo{}, false, nil
	}
	if err != nil {
		return store.RunInfo{}, false, err
	}
	run.CleanedAt, err = time.Parse(timeFormat, cleanedAt)
	if err != nil {
		return store.RunInfo{}, false, err
	}
	return run, true, nil
}
