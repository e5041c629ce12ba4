package worker

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tally/internal/core"
	ledgermem "tally/internal/ledger/memory"
	sheetsmem "tally/internal/sheets/memory"
)

func seedRecord(note string) core.Record {
	return core.Record{
		When:     time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		Amount:   decimal.NewFromInt(42),
		Category: "Food",
		Note:     note,
	}
}

func TestDefaultMirrorConfig(t *testing.T) {
	if got := DefaultMirrorConfig().PollInterval; got != 5*time.Minute {
		t.Errorf("expected PollInterval 5m, got %v", got)
	}
}

func TestPushIfChangedSkipsUnchanged(t *testing.T) {
	store := ledgermem.New(seedRecord("a"))
	mirror := sheetsmem.New()
	m := NewMirror(store, mirror, DefaultMirrorConfig())
	ctx := context.Background()

	m.pushIfChanged(ctx)
	m.pushIfChanged(ctx)
	if got := mirror.Snapshots(); got != 1 {
		t.Fatalf("unchanged ledger must not be re-pushed, got %d pushes", got)
	}

	if err := store.Append(ctx, seedRecord("b")); err != nil {
		t.Fatalf("append: %v", err)
	}
	m.pushIfChanged(ctx)
	if got := mirror.Snapshots(); got != 2 {
		t.Fatalf("changed ledger must be pushed, got %d pushes", got)
	}
	if last := mirror.Last(); len(last) != 2 {
		t.Fatalf("expected full snapshot of 2 records, got %d", len(last))
	}
}

func TestPushIfChangedPushesEmptyLedgerOnce(t *testing.T) {
	store := ledgermem.New()
	mirror := sheetsmem.New()
	m := NewMirror(store, mirror, DefaultMirrorConfig())
	ctx := context.Background()

	m.pushIfChanged(ctx)
	m.pushIfChanged(ctx)
	if got := mirror.Snapshots(); got != 1 {
		t.Fatalf("empty ledger should mirror exactly once, got %d", got)
	}
}

func TestStartStop(t *testing.T) {
	store := ledgermem.New(seedRecord("a"))
	mirror := sheetsmem.New()
	cfg := MirrorConfig{PollInterval: time.Hour}
	m := NewMirror(store, mirror, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if m.IsRunning() {
		t.Error("mirror should not be running initially")
	}
	if err := m.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !m.IsRunning() {
		t.Error("mirror should report running after Start")
	}
	if err := m.Start(ctx); err == nil {
		t.Error("expected error when starting an already running mirror")
	}

	// The startup push happens before the first tick.
	deadline := time.Now().Add(2 * time.Second)
	for mirror.Snapshots() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if mirror.Snapshots() == 0 {
		t.Fatal("expected a startup push")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	if err := m.Stop(stopCtx); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if m.IsRunning() {
		t.Error("mirror should not report running after Stop")
	}
	if err := m.Stop(stopCtx); err != nil {
		t.Errorf("Stop should not error when not running: %v", err)
	}
}
