// Package core defines the expense record domain: the record type, its
// canonical textual forms, amount parsing, and the error taxonomy shared
// by the store and report layers.
package core

import (
	"hash/fnv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TimeLayout is the canonical textual form of a record timestamp.
// Minute precision, no timezone.
const TimeLayout = "2006-01-02 15:04"

// Record is one logged expense.
type Record struct {
	When     time.Time
	Amount   decimal.Decimal
	Category string
	Note     string
}

// DateString returns the timestamp in its canonical textual form.
func (r Record) DateString() string {
	return r.When.Format(TimeLayout)
}

func (r Record) Validate() error {
	if r.When.IsZero() {
		return ErrInvalidTimestamp
	}
	if r.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if strings.TrimSpace(r.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

// ParseTimestamp parses a timestamp in the canonical layout.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidTimestamp
	}
	return t, nil
}

// Fingerprint hashes the canonical textual forms of the records. Two
// ledgers with the same fingerprint render identical snapshots, so the
// mirror worker and response caches use it to detect change.
func Fingerprint(records []Record) uint64 {
	h := fnv.New64a()
	for _, rec := range records {
		h.Write([]byte(rec.DateString()))
		h.Write([]byte{0})
		h.Write([]byte(rec.Amount.String()))
		h.Write([]byte{0})
		h.Write([]byte(rec.Category))
		h.Write([]byte{0})
		h.Write([]byte(rec.Note))
		h.Write([]byte{1})
	}
	return h.Sum64()
}
