// Package sheets defines the port for mirroring the ledger to a
// spreadsheet.
package sheets

import (
	"context"

	"tally/internal/core"
)

// SnapshotWriter replaces the mirrored copy of the ledger with the given
// records. The mirror is one way: nothing is ever read back.
type SnapshotWriter interface {
	WriteSnapshot(ctx context.Context, records []core.Record) error
}
