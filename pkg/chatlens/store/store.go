package store

import (
	"context"
	"time"

	"github.com/chatlens/chatlens/pkg/chatlens/chat"
)

// Store persists the enriched working table between invocations, so
// the expensive cleaning stage runs once and later report runs load
// the cleaned rows instead.
type Store interface {
	Close() error

	// ReplaceMessages atomically swaps the stored table for a new one
	// and records the run that produced it.
	ReplaceMessages(ctx context.Context, run RunInfo, msgs chat.Table) error
	Messages(ctx context.Context) (chat.Table, error)
	Count(ctx context.Context) (int64, error)

	// LastRun reports the most recent cleaning run, ok=false when the
	// store has never been written.
	LastRun(ctx context.Context) (RunInfo, bool, error)
}

// RunInfo identifies one cleaning run.
type RunInfo struct {
	ID        string
	CleanedAt time.Time
	Rows      int64
}
