// Package worker runs the background loop that mirrors ledger snapshots
// to a spreadsheet.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"tally/internal/core"
	"tally/internal/ledger"
	"tally/internal/sheets"
)

// MirrorConfig holds configuration for the mirror worker.
type MirrorConfig struct {
	// PollInterval is how often the ledger is checked for changes.
	PollInterval time.Duration
}

// DefaultMirrorConfig returns sensible defaults.
func DefaultMirrorConfig() MirrorConfig {
	return MirrorConfig{PollInterval: 5 * time.Minute}
}

// Mirror polls the ledger and pushes a snapshot to the spreadsheet
// whenever the contents changed since the last successful push. It only
// ever reads the ledger.
type Mirror struct {
	store  ledger.Store
	writer sheets.SnapshotWriter
	config MirrorConfig

	// Lifecycle management
	mu       sync.Mutex
	running  bool
	stopCh   chan struct{}
	doneCh   chan struct{}
	pushed   bool
	lastHash uint64
}

func NewMirror(store ledger.Store, writer sheets.SnapshotWriter, config MirrorConfig) *Mirror {
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultMirrorConfig().PollInterval
	}
	return &Mirror{store: store, writer: writer, config: config}
}

// Start begins the mirror loop. Returns an error if already running.
func (m *Mirror) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return fmt.Errorf("mirror is already running")
	}
	m.running = true
	m.stopCh = make(chan struct{})
	m.doneCh = make(chan struct{})
	m.mu.Unlock()

	go m.runLoop(ctx)

	slog.InfoContext(ctx, "Mirror started",
		"poll_interval", m.config.PollInterval)
	return nil
}

// Stop gracefully stops the mirror and waits for completion.
func (m *Mirror) Stop(ctx context.Context) error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	m.mu.Unlock()

	close(m.stopCh)

	select {
	case <-m.doneCh:
		slog.InfoContext(ctx, "Mirror stopped gracefully")
	case <-ctx.Done():
		slog.WarnContext(ctx, "Mirror stop timed out")
		return ctx.Err()
	}

	m.mu.Lock()
	m.running = false
	m.mu.Unlock()
	return nil
}

// IsRunning reports whether the mirror loop is active.
func (m *Mirror) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Mirror) runLoop(ctx context.Context) {
	defer close(m.doneCh)

	ticker := time.NewTicker(m.config.PollInterval)
	defer ticker.Stop()

	// Push immediately on startup so a fresh mirror catches up without
	// waiting out the first interval.
	m.pushIfChanged(ctx)

	for {
		select {
		case <-m.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.pushIfChanged(ctx)
		}
	}
}

// pushIfChanged loads the ledger and pushes a snapshot unless the
// contents are identical to the last successful push.
func (m *Mirror) pushIfChanged(ctx context.Context) {
	records, err := m.store.Load(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load ledger for mirroring", "error", err)
		return
	}

	hash := core.Fingerprint(records)
	m.mu.Lock()
	unchanged := m.pushed && hash == m.lastHash
	m.mu.Unlock()
	if unchanged {
		slog.DebugContext(ctx, "Mirror push skipped, ledger unchanged",
			"records", len(records))
		return
	}

	if err := m.writer.WriteSnapshot(ctx, records); err != nil {
		slog.ErrorContext(ctx, "Failed to push ledger snapshot", "error", err)
		return
	}

	m.mu.Lock()
	m.pushed = true
	m.lastHash = hash
	m.mu.Unlock()

	slog.InfoContext(ctx, "Ledger snapshot pushed", "records", len(records))
}
