// Package file persists records as a flat comma-delimited text file: one
// record per line, no header, fields timestamp, amount, category, note.
// Standard CSV quoting applies, so commas and quotes in categories and
// notes survive the round trip.
package file

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"tally/internal/core"
	"tally/internal/ledger"
)

type Store struct {
	path string
}

var _ ledger.Store = (*Store)(nil)

func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file location.
func (s *Store) Path() string { return s.path }

// Load implements ledger.Store. A missing file is an empty ledger, not an
// error; a row whose timestamp or amount does not parse fails the whole
// load with a core.ParseError naming the offending line.
func (s *Store) Load(_ context.Context) ([]core.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []core.Record{}, nil
		}
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()
	return decode(f)
}

// Save implements ledger.Store. The new content is written to a temp file
// in the same directory and renamed over the target, so a failed write
// never truncates the ledger.
func (s *Store) Save(_ context.Context, records []core.Record) error {
	for i, rec := range records {
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".ledger-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp ledger: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := encode(tmp, records); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp ledger: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace ledger: %w", err)
	}
	return nil
}

// Append implements ledger.Store. The file is created on first write.
func (s *Store) Append(_ context.Context, rec core.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	if err := encode(f, []core.Record{rec}); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close ledger: %w", err)
	}
	return nil
}

func decode(r io.Reader) ([]core.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 4

	records := []core.Record{}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read ledger: %w", err)
		}
		line, _ := cr.FieldPos(0)
		when, err := core.ParseTimestamp(row[0])
		if err != nil {
			return nil, &core.ParseError{Line: line, Field: "timestamp", Value: row[0], Err: err}
		}
		amount, err := core.ParseAmount(row[1])
		if err != nil {
			return nil, &core.ParseError{Line: line, Field: "amount", Value: row[1], Err: err}
		}
		records = append(records, core.Record{When: when, Amount: amount, Category: row[2], Note: row[3]})
	}
	return records, nil
}

func encode(w io.Writer, records []core.Record) error {
	cw := csv.NewWriter(w)
	for _, rec := range records {
		row := []string{rec.DateString(), rec.Amount.String(), rec.Category, rec.Note}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush ledger: %w", err)
	}
	return nil
}
