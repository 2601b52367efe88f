// Package app is the composition root of logpanel.
//
// # Overview
//
// Run wires configuration, the record store, the producers and the UI:
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()          Read config.toml, apply CLI overrides
//	       ├─────> setupLogger()          logrus to the log file
//	       ├─────> logstore.New()         Bounded store with metrics observer
//	       ├─────> ingest.NewHook()       logrus entries → store (category "app")
//	       ├─────> StartFollower()        One tail -F goroutine per file
//	       ├─────> StartDemo()            Sample records, when enabled
//	       ├─────> metrics.NewServer()    /metrics, when an address is set
//	       └─────> ui.Run()               Panel (blocks)
//
// # Errors
//
// Fatal (returned from Run): an unreadable config, invalid store limits, an
// unwritable log file. Everything after startup (a follower that cannot read,
// a failed prefs write) is logged and the panel keeps running.
//
// # Shutdown
//
// When the UI exits, or the parent context is cancelled, Run cancels every
// producer and waits for them before returning.
package app
