// Package memory is the in-process session store used by default and
// in tests. Records vanish on restart.
package memory

import (
	"context"
	"sort"
	"sync"

	"sleuth/internal/session"
)

// Store is an in-memory implementation of session.Store.
type Store struct {
	mu      sync.RWMutex
	records map[string]session.Record
}

var _ session.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{records: make(map[string]session.Record)}
}

func (s *Store) Put(ctx context.Context, rec session.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[rec.ID] = rec
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (session.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.records[id]
	if !exists {
		return session.Record{}, session.ErrNotFound
	}
	return rec, nil
}

func (s *Store) List(ctx context.Context) ([]session.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]session.Record, 0, len(s.records))
	for _, rec := range s.records {
		result = append(result, rec)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *Store) Clear(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.records)
	s.records = make(map[string]session.Record)
	return n, nil
}

func (s *Store) Close() error { return nil }
