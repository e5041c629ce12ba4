// Package ledger defines the record store port shared by its adapters.
package ledger

import (
	"context"

	"tally/internal/core"
)

// Store persists the expense ledger. The stored collection is an ordered
// sequence; mutating operations rewrite it in full.
type Store interface {
	// Load returns every stored record in entry order. A store that has
	// never been written yields an empty slice.
	Load(ctx context.Context) ([]core.Record, error)

	// Save rewrites the store with exactly the given sequence.
	Save(ctx context.Context, records []core.Record) error

	// Append adds one record to the end of the store.
	Append(ctx context.Context, rec core.Record) error
}
