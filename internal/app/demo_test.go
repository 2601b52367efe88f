package app

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/five82/logpanel/internal/ingest"
	"github.com/five82/logpanel/internal/logstore"
)

func newStore(t *testing.T) *logstore.Store {
	t.Helper()
	store, err := logstore.New(logstore.DefaultConfig())
	if err != nil {
		t.Fatalf("logstore.New returned error: %v", err)
	}
	return store
}

func TestEmitDemo_ReplaysScriptWithCombatTicks(t *testing.T) {
	store := newStore(t)
	combat := slog.New(ingest.NewHandler(store, "Combat", slog.LevelDebug))

	for tick := 0; tick < 6; tick++ {
		emitDemo(store, combat, tick)
	}

	snap := store.Snapshot()
	if len(snap) != 6 {
		t.Fatalf("Len = %d, want 6", len(snap))
	}

	want := []string{"Network", "Dialogue", "Combat", "Network", "Unknown", "Combat"}
	for i, rec := range snap {
		if rec.Category != want[i] {
			t.Fatalf("record %d category = %q, want %q", i, rec.Category, want[i])
		}
	}
	if snap[0].Message != "Connecting..." || snap[0].Severity != logstore.SeverityDebug {
		t.Fatalf("first record = %+v, want Connecting... DEBUG", snap[0])
	}
	if !strings.HasPrefix(snap[2].Message, "hit ") || !strings.Contains(snap[2].Message, "damage=5") {
		t.Fatalf("combat record = %q, want hit with damage field", snap[2].Message)
	}
}

func TestEmitDemo_CoversEverySeverity(t *testing.T) {
	store := newStore(t)
	combat := slog.New(ingest.NewHandler(store, "Combat", slog.LevelDebug))

	for tick := 0; tick < 3*len(demoScript); tick++ {
		emitDemo(store, combat, tick)
	}

	seen := make(map[logstore.Severity]bool)
	for _, rec := range store.Snapshot() {
		seen[rec.Severity] = true
	}
	for _, sev := range logstore.Severities {
		if !seen[sev] {
			t.Fatalf("demo never produced %v", sev)
		}
	}
}

func TestStartDemo_StopsOnCancel(t *testing.T) {
	store := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())

	var wg sync.WaitGroup
	StartDemo(ctx, &wg, store, 5*time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for store.Len() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("demo produced %d records, want >= 3", store.Len())
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	wg.Wait()

	n := store.Len()
	time.Sleep(20 * time.Millisecond)
	if store.Len() != n {
		t.Fatalf("demo kept logging after cancel")
	}
}
