// Package logstore provides the bounded, thread-safe record buffer behind the
// log panel.
//
// # Overview
//
// Producers (background workers, the logrus hook, the file follower) call
// Store.Log or Store.Append from any goroutine. The UI reads the buffer once
// per frame with Store.Snapshot and filters the copy without holding a lock.
//
//	Producers:                     Render loop:
//	┌────────────────┐            ┌─────────────────┐
//	│ store.Log(...) │───────────→│ store.Snapshot()│
//	│ store.Append() │  (mutex)   │ filter.Apply()  │
//	└────────────────┘            │ draw rows       │
//	                              └─────────────────┘
//
// # Capacity and Eviction
//
// A Store holds at most StoreConfig.MaxRecords records. The backing slice grows
// on demand until it reaches capacity and is then reused as a ring: each new
// record overwrites the oldest one and the head index advances. Eviction is
// strictly FIFO and the relative order of the surviving records never changes.
//
// # Message Cleaning
//
// Append never fails. Before a record is stored its message is cleaned:
//
//   - invalid UTF-8 is replaced with U+FFFD
//   - carriage returns and newlines are removed, so a record is always one row
//   - the result is cut to MaxMessageLength runes, keeping a valid prefix
//
// Severities outside Debug..Error are clamped to the nearest valid level.
//
// # Severity Ordering
//
// Severity values ascend with severity: Debug < Info < Warn < Error. A
// severity floor keeps records at or above it.
//
// # Concurrency Model
//
// All mutable state sits behind one sync.RWMutex:
//
//   - Append, Clear: write lock, O(1)
//   - Snapshot: read lock held only while copying out
//   - Version, Len, Categories: read lock
//
// Observers run after the lock is released so a slow observer never stalls
// the render loop.
//
// # Configuration Errors
//
// New rejects limits below 1 with a *ConfigError; a zero-capacity store
// would be unusable, so invalid limits are never defaulted silently.
package logstore
