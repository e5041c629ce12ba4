package backend

import (
	"context"
	"fmt"
	"log/slog"

	"tally/internal/ledger/file"
	"tally/internal/ledger/memory"
)

// DefaultFactory implements the Factory interface.
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new store factory.
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateStore implements Factory.CreateStore.
func (f *DefaultFactory) CreateStore(_ context.Context, config Config) (*StoreResult, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validate store config: %w", err)
	}

	switch config.Type {
	case CSVStore:
		f.logger.Info("Initialized csv store", "path", config.LedgerPath)
		return &StoreResult{Store: file.New(config.LedgerPath)}, nil

	case MemoryStore:
		f.logger.Info("Initialized memory store")
		return &StoreResult{Store: memory.New()}, nil

	default:
		return nil, fmt.Errorf("unsupported store type: %s", config.Type)
	}
}
