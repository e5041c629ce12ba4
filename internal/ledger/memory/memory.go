// Package memory provides an in-memory record store for tests and the
// memory backend.
package memory

import (
	"context"
	"fmt"
	"sync"

	"tally/internal/core"
	"tally/internal/ledger"
)

type Store struct {
	mu      sync.Mutex
	items   []core.Record
	loadErr error
}

var _ ledger.Store = (*Store)(nil)

func New(records ...core.Record) *Store {
	return &Store{items: append([]core.Record(nil), records...)}
}

// FailWith makes every subsequent Load return err. Tests use it to stand
// in for a store whose file cannot be parsed; nil restores normal loads.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadErr = err
}

func (s *Store) Load(_ context.Context) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return append([]core.Record(nil), s.items...), nil
}

func (s *Store) Save(_ context.Context, records []core.Record) error {
	for i, rec := range records {
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]core.Record(nil), records...)
	return nil
}

func (s *Store) Append(_ context.Context, rec core.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, rec)
	return nil
}
