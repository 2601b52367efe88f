package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/five82/logpanel/internal/ingest"
	"github.com/five82/logpanel/internal/logstore"
)

const defaultDemoInterval = 750 * time.Millisecond

type demoEvent struct {
	category string
	severity logstore.Severity
	message  string
}

// demoScript is replayed in order, one event per tick.
var demoScript = []demoEvent{
	{"Network", logstore.SeverityDebug, "Connecting..."},
	{"Dialogue", logstore.SeverityInfo, "Hello World"},
	{"Network", logstore.SeverityInfo, "Connected to lobby eu-west-2"},
	{"Unknown", logstore.SeverityWarn, "Be warned"},
	{"Dialogue", logstore.SeverityInfo, "The innkeeper nods at you."},
	{"Network", logstore.SeverityWarn, "Round trip above 250ms"},
	{"Network", logstore.SeverityError, "Disconnected unexpectedly!"},
	{"Network", logstore.SeverityDebug, "Reconnecting (attempt 1)"},
}

// combatEvery sends every n-th tick through slog instead of the script.
const combatEvery = 3

// StartDemo launches a goroutine that logs sample records at a fixed cadence
// until ctx is cancelled. It returns immediately.
func StartDemo(ctx context.Context, wg *sync.WaitGroup, store *logstore.Store, interval time.Duration) {
	if interval <= 0 {
		interval = defaultDemoInterval
	}
	combat := slog.New(ingest.NewHandler(store, "Combat", slog.LevelDebug))

	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for tick := 0; ; tick++ {
			emitDemo(store, combat, tick)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// emitDemo logs the event for one tick.
func emitDemo(store *logstore.Store, combat *slog.Logger, tick int) {
	if tick%combatEvery == combatEvery-1 {
		round := tick / combatEvery
		damage := 5 + (round*7)%20
		if damage >= 20 {
			combat.Warn("critical hit", "damage", damage, "target", "player")
			return
		}
		combat.Info("hit", "damage", damage, "target", "goblin")
		return
	}

	ev := demoScript[(tick-tick/combatEvery)%len(demoScript)]
	store.Log(ev.message, ev.severity, ev.category)
}
