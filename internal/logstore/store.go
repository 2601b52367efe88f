package logstore

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Default limits, matching the widget's out-of-the-box behaviour.
const (
	DefaultMaxRecords       = 2000
	DefaultMaxMessageLength = 2000
)

// StoreConfig bounds the memory a Store may hold.
type StoreConfig struct {
	MaxRecords       int
	MaxMessageLength int // measured in runes
}

// DefaultConfig returns the default limits.
func DefaultConfig() StoreConfig {
	return StoreConfig{MaxRecords: DefaultMaxRecords, MaxMessageLength: DefaultMaxMessageLength}
}

// Validate returns a *ConfigError for the first limit below 1.
func (c StoreConfig) Validate() error {
	if c.MaxRecords < 1 {
		return &ConfigError{Field: "max_records", Value: c.MaxRecords}
	}
	if c.MaxMessageLength < 1 {
		return &ConfigError{Field: "max_message_length", Value: c.MaxMessageLength}
	}
	return nil
}

// Observer is notified of store mutations. Calls happen after the store lock
// is released, on the goroutine that performed the mutation.
type Observer interface {
	Appended(rec Record)
	Evicted(rec Record)
	Cleared(n int)
}

// Option customizes a Store.
type Option func(*Store)

// WithObserver registers an Observer.
func WithObserver(o Observer) Option {
	return func(s *Store) { s.observer = o }
}

// WithClock replaces time.Now for records logged without a timestamp.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// CategoryCount is a category currently present in the store.
type CategoryCount struct {
	Name  string
	Count int
}

// Store is a fixed-capacity, insertion-ordered record buffer. When full, an
// append evicts exactly the oldest record. It is safe for concurrent use.
type Store struct {
	cfg      StoreConfig
	now      func() time.Time
	observer Observer

	mu         sync.RWMutex
	ring       []Record // grows up to cfg.MaxRecords, then wraps
	head       int      // index of the oldest record once the ring is full
	seq        uint64
	version    uint64
	categories map[string]int
}

// New validates cfg and returns an empty store.
func New(cfg StoreConfig, opts ...Option) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Store{
		cfg:        cfg,
		now:        time.Now,
		categories: make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Config returns the limits the store was created with.
func (s *Store) Config() StoreConfig {
	return s.cfg
}

// Append stores rec, evicting the oldest record first when the store is full.
// The message is cleaned and truncated to MaxMessageLength runes; a zero
// timestamp is replaced with the store clock.
func (s *Store) Append(rec Record) {
	rec.Message = cleanMessage(rec.Message, s.cfg.MaxMessageLength)
	rec.Severity = clampSeverity(rec.Severity)
	if rec.Timestamp.IsZero() {
		rec.Timestamp = s.now()
	}

	var (
		evicted  Record
		didEvict bool
	)

	s.mu.Lock()
	s.seq++
	rec.Seq = s.seq
	if len(s.ring) < s.cfg.MaxRecords {
		s.ring = append(s.ring, rec)
	} else {
		evicted = s.ring[s.head]
		didEvict = true
		s.ring[s.head] = rec
		s.head = (s.head + 1) % len(s.ring)
		s.releaseCategory(evicted.Category)
	}
	s.categories[rec.Category]++
	s.version++
	observer := s.observer
	s.mu.Unlock()

	if observer != nil {
		if didEvict {
			observer.Evicted(evicted)
		}
		observer.Appended(rec)
	}
}

// Log is the ingestion entry point for producers.
func (s *Store) Log(message string, severity Severity, category string) {
	s.Append(Record{Message: message, Severity: severity, Category: category})
}

// Debugf logs a formatted debug record.
func (s *Store) Debugf(category, format string, args ...any) {
	s.Log(fmt.Sprintf(format, args...), SeverityDebug, category)
}

// Infof logs a formatted info record.
func (s *Store) Infof(category, format string, args ...any) {
	s.Log(fmt.Sprintf(format, args...), SeverityInfo, category)
}

// Warnf logs a formatted warning record.
func (s *Store) Warnf(category, format string, args ...any) {
	s.Log(fmt.Sprintf(format, args...), SeverityWarn, category)
}

// Errorf logs a formatted error record.
func (s *Store) Errorf(category, format string, args ...any) {
	s.Log(fmt.Sprintf(format, args...), SeverityError, category)
}

// Snapshot returns a copy of all stored records, oldest first. The lock is
// held only for the copy.
func (s *Store) Snapshot() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.ring)
	if n == 0 {
		return nil
	}
	out := make([]Record, n)
	// copy in two runs: head..end, then 0..head
	copied := copy(out, s.ring[s.head:])
	copy(out[copied:], s.ring[:s.head])
	return out
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ring)
}

// Version increases on every Append and Clear. Renderers compare it between
// frames to skip re-filtering unchanged data.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Categories returns the categories of the stored records with their counts,
// sorted by name.
func (s *Store) Categories() []CategoryCount {
	s.mu.RLock()
	out := make([]CategoryCount, 0, len(s.categories))
	for name, count := range s.categories {
		out = append(out, CategoryCount{Name: name, Count: count})
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Clear removes every record. Sequence numbers keep increasing afterwards.
func (s *Store) Clear() {
	s.mu.Lock()
	n := len(s.ring)
	s.ring = nil
	s.head = 0
	s.categories = make(map[string]int)
	s.version++
	observer := s.observer
	s.mu.Unlock()

	if observer != nil {
		observer.Cleared(n)
	}
}

func (s *Store) releaseCategory(name string) {
	if s.categories[name] <= 1 {
		delete(s.categories, name)
		return
	}
	s.categories[name]--
}

func clampSeverity(sev Severity) Severity {
	switch {
	case sev < SeverityDebug:
		return SeverityDebug
	case sev > SeverityError:
		return SeverityError
	default:
		return sev
	}
}

// cleanMessage replaces invalid UTF-8, drops line breaks so every record
// renders and exports as a single line, and truncates to limit runes.
func cleanMessage(message string, limit int) string {
	message = strings.ToValidUTF8(message, "\uFFFD")
	if strings.ContainsAny(message, "\r\n") {
		message = strings.Map(func(r rune) rune {
			if r == '\n' || r == '\r' {
				return -1
			}
			return r
		}, message)
	}
	return truncateRunes(message, limit)
}

func truncateRunes(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	count := 0
	for i := range value {
		if count == limit {
			return value[:i]
		}
		count++
	}
	return value
}
