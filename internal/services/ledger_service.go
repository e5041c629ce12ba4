// Package services orchestrates record operations against the store.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"tally/internal/core"
	"tally/internal/ledger"
)

// LedgerService runs the record operations. Mutations take a single
// writer lock so concurrent requests cannot interleave their
// load-rewrite cycles and lose updates.
type LedgerService struct {
	store ledger.Store
	now   func() time.Time

	mu sync.Mutex
}

func NewLedgerService(store ledger.Store) *LedgerService {
	return &LedgerService{store: store, now: time.Now}
}

// WithClock overrides the timestamp source. Tests use it to pin record
// timestamps.
func (s *LedgerService) WithClock(now func() time.Time) *LedgerService {
	s.now = now
	return s
}

// Add stamps the current time, truncated to the minute, and appends one
// record.
func (s *LedgerService) Add(ctx context.Context, amount decimal.Decimal, category, note string) (core.Record, error) {
	rec := core.Record{
		When:     s.now().Truncate(time.Minute),
		Amount:   amount,
		Category: category,
		Note:     note,
	}
	if err := rec.Validate(); err != nil {
		return core.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Append(ctx, rec); err != nil {
		return core.Record{}, fmt.Errorf("append record: %w", err)
	}
	slog.InfoContext(ctx, "Record appended",
		"category", rec.Category,
		"amount", rec.Amount.String())
	return rec, nil
}

// List returns every record in entry order.
func (s *LedgerService) List(ctx context.Context) ([]core.Record, error) {
	records, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	return records, nil
}

// Delete removes the record at pos and returns it.
func (s *LedgerService) Delete(ctx context.Context, pos int) (core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.store.Load(ctx)
	if err != nil {
		return core.Record{}, fmt.Errorf("load records: %w", err)
	}
	if pos < 0 || pos >= len(records) {
		return core.Record{}, &core.PositionError{Position: pos, Count: len(records)}
	}

	removed := records[pos]
	records = append(records[:pos], records[pos+1:]...)
	if err := s.store.Save(ctx, records); err != nil {
		return core.Record{}, fmt.Errorf("save records: %w", err)
	}
	slog.InfoContext(ctx, "Record deleted",
		"position", pos,
		"category", removed.Category)
	return removed, nil
}

// Edit replaces the amount, category, and note of the record at pos. The
// original timestamp is preserved.
func (s *LedgerService) Edit(ctx context.Context, pos int, amount decimal.Decimal, category, note string) (core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.store.Load(ctx)
	if err != nil {
		return core.Record{}, fmt.Errorf("load records: %w", err)
	}
	if pos < 0 || pos >= len(records) {
		return core.Record{}, &core.PositionError{Position: pos, Count: len(records)}
	}

	updated := core.Record{When: records[pos].When, Amount: amount, Category: category, Note: note}
	if err := updated.Validate(); err != nil {
		return core.Record{}, err
	}
	records[pos] = updated
	if err := s.store.Save(ctx, records); err != nil {
		return core.Record{}, fmt.Errorf("save records: %w", err)
	}
	slog.InfoContext(ctx, "Record updated",
		"position", pos,
		"category", updated.Category)
	return updated, nil
}
