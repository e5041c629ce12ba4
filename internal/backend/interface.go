// Package backend selects and constructs the record store configured
// for the process.
package backend

import (
	"context"

	"tally/internal/ledger"
)

// CleanupFunc releases resources held by a store.
type CleanupFunc func() error

// StoreResult contains the store instance and an optional cleanup
// function.
type StoreResult struct {
	Store   ledger.Store
	Cleanup CleanupFunc
}

// Factory creates stores based on configuration.
type Factory interface {
	CreateStore(ctx context.Context, config Config) (*StoreResult, error)
}

// Config holds configuration for store creation.
type Config struct {
	Type StoreType

	// CSV specific
	LedgerPath string
}

// StoreType represents the kind of record store.
type StoreType string

const (
	CSVStore    StoreType = "csv"
	MemoryStore StoreType = "memory"
)

// String implements fmt.Stringer.
func (st StoreType) String() string {
	return string(st)
}

// IsValid returns true if the store type is valid.
func (st StoreType) IsValid() bool {
	switch st {
	case CSVStore, MemoryStore:
		return true
	default:
		return false
	}
}

// StoreTypes returns all valid store types.
func StoreTypes() []StoreType {
	return []StoreType{CSVStore, MemoryStore}
}
