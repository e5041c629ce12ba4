// Package memory provides an in-memory snapshot mirror for tests.
package memory

import (
	"context"
	"sync"

	"tally/internal/core"
	ports "tally/internal/sheets"
)

type Mirror struct {
	mu        sync.Mutex
	snapshots int
	last      []core.Record
}

var _ ports.SnapshotWriter = (*Mirror)(nil)

func New() *Mirror { return &Mirror{} }

func (m *Mirror) WriteSnapshot(_ context.Context, records []core.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots++
	m.last = append([]core.Record(nil), records...)
	return nil
}

// Snapshots returns how many times the mirror has been written.
func (m *Mirror) Snapshots() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshots
}

// Last returns the records from the most recent snapshot.
func (m *Mirror) Last() []core.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]core.Record(nil), m.last...)
}
