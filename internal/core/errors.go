package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrNegativeAmount   = errors.New("negative amount")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrEmptyCategory    = errors.New("empty category")
	ErrNoSalary         = errors.New("no salary recorded")
)

// A ParseError reports a stored record that could not be decoded. It names
// the line, the field, and the raw value so the offending entry can be
// found and fixed by hand.
type ParseError struct {
	Line  int // 1-based line in the stored file
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("record on line %d: bad %s %q: %v", e.Line, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// A PositionError reports a record position outside the stored range.
type PositionError struct {
	Position int
	Count    int
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("position %d out of range: %d records", e.Position, e.Count)
}
