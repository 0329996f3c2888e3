package memstore

import (
	"context"
	"sync"

	"github.com/chatlens/chatlens/pkg/chatlens/chat"
	"github.com/chatlens/chatlens/pkg/chatlens/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu   sync.RWMutex
	msgs chat.Table
	runs []store.RunInfo
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// ReplaceMessages swaps the stored table and records the run.
func (s *Store) ReplaceMessages(ctx context.Context, run store.RunInfo, msgs chat.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.msgs = make(chat.Table, len(msgs))
	copy(s.msgs, msgs)
	run.Rows = int64(len(msgs))
	s.runs = append(s.runs, run)
	return nil
}

// Messages returns a copy of the stored table.
func (s *Store) Messages(ctx context.Context) (chat.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(chat.Table, len(s.msgs))
	copy(out, s.msgs)
	return out, nil
}

// Count returns the stored row count.
func (s *Store) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.msgs)), nil
}

// LastRun returns the most recently recorded run.
func (s *Store) LastRun(ctx context.Context) (store.RunInfo, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.runs) == 0 {
		return store.RunInfo{}, false, nil
	}
	return s.runs[len(s.runs)-1], true, nil
}
