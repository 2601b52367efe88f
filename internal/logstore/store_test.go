package logstore

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"
)

func newTestStore(t *testing.T, maxRecords, maxLen int, opts ...Option) *Store {
	t.Helper()
	s, err := New(StoreConfig{MaxRecords: maxRecords, MaxMessageLength: maxLen}, opts...)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return s
}

func messages(records []Record) []string {
	out := make([]string, len(records))
	for i, rec := range records {
		out[i] = rec.Message
	}
	return out
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name  string
		cfg   StoreConfig
		field string
	}{
		{"zero records", StoreConfig{MaxRecords: 0, MaxMessageLength: 10}, "max_records"},
		{"negative records", StoreConfig{MaxRecords: -3, MaxMessageLength: 10}, "max_records"},
		{"zero length", StoreConfig{MaxRecords: 10, MaxMessageLength: 0}, "max_message_length"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.cfg)
			if s != nil {
				t.Fatalf("New returned store %v, want nil", s)
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("New error = %v, want *ConfigError", err)
			}
			if cfgErr.Field != tt.field {
				t.Fatalf("ConfigError.Field = %q, want %q", cfgErr.Field, tt.field)
			}
		})
	}
}

func TestStore_NeverExceedsCapacity(t *testing.T) {
	s := newTestStore(t, 5, 100)
	for i := 0; i < 23; i++ {
		s.Log(fmt.Sprintf("m%d", i), SeverityInfo, "test")
		if got := s.Len(); got > 5 {
			t.Fatalf("after append %d Len = %d, want <= 5", i, got)
		}
	}
	if got := s.Len(); got != 5 {
		t.Fatalf("Len = %d, want 5", got)
	}
}

func TestStore_EvictsOldestAndKeepsOrder(t *testing.T) {
	s := newTestStore(t, 3, 100)
	for _, msg := range []string{"A", "B", "C", "D"} {
		s.Log(msg, SeverityInfo, "test")
	}

	got := messages(s.Snapshot())
	want := []string{"B", "C", "D"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("Snapshot = %v, want %v", got, want)
	}

	// wrap around the ring more than once
	for _, msg := range []string{"E", "F", "G", "H"} {
		s.Log(msg, SeverityInfo, "test")
	}
	got = messages(s.Snapshot())
	want = []string{"F", "G", "H"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("Snapshot after wrap = %v, want %v", got, want)
	}
}

func TestStore_SequenceNumbersIncrease(t *testing.T) {
	s := newTestStore(t, 2, 100)
	for i := 0; i < 5; i++ {
		s.Log("x", SeverityDebug, "")
	}
	snap := s.Snapshot()
	if snap[0].Seq != 4 || snap[1].Seq != 5 {
		t.Fatalf("Seq = %d,%d, want 4,5", snap[0].Seq, snap[1].Seq)
	}
}

func TestStore_TruncatesLongMessages(t *testing.T) {
	s := newTestStore(t, 10, 5)

	s.Log("abcdefghij", SeverityInfo, "test")
	s.Log("abc", SeverityInfo, "test")
	s.Log("héllo wörld", SeverityInfo, "test")

	snap := s.Snapshot()
	if snap[0].Message != "abcde" {
		t.Fatalf("Message = %q, want %q", snap[0].Message, "abcde")
	}
	if snap[1].Message != "abc" {
		t.Fatalf("Message = %q, want %q", snap[1].Message, "abc")
	}
	if snap[2].Message != "héllo" {
		t.Fatalf("Message = %q, want %q", snap[2].Message, "héllo")
	}
	for _, rec := range snap {
		if n := utf8.RuneCountInString(rec.Message); n > 5 {
			t.Fatalf("stored message %q has %d runes, want <= 5", rec.Message, n)
		}
	}
}

func TestStore_CleansMessages(t *testing.T) {
	s := newTestStore(t, 10, 100)

	s.Log("line one\nline two\r\n", SeverityInfo, "test")
	s.Log("bad \xff byte", SeverityInfo, "test")

	snap := s.Snapshot()
	if snap[0].Message != "line oneline two" {
		t.Fatalf("Message = %q, want newlines removed", snap[0].Message)
	}
	if !utf8.ValidString(snap[1].Message) {
		t.Fatalf("Message = %q, want valid UTF-8", snap[1].Message)
	}
	if !strings.Contains(snap[1].Message, "�") {
		t.Fatalf("Message = %q, want replacement character", snap[1].Message)
	}
}

func TestStore_ClampsSeverity(t *testing.T) {
	s := newTestStore(t, 10, 100)
	s.Log("low", Severity(-4), "test")
	s.Log("high", Severity(42), "test")

	snap := s.Snapshot()
	if snap[0].Severity != SeverityDebug {
		t.Fatalf("Severity = %v, want DEBUG", snap[0].Severity)
	}
	if snap[1].Severity != SeverityError {
		t.Fatalf("Severity = %v, want ERROR", snap[1].Severity)
	}
}

func TestStore_UsesClockForMissingTimestamp(t *testing.T) {
	fixed := time.Date(2025, 12, 13, 10, 11, 12, 0, time.UTC)
	s := newTestStore(t, 10, 100, WithClock(func() time.Time { return fixed }))

	s.Log("stamped", SeverityInfo, "test")
	explicit := fixed.Add(-time.Hour)
	s.Append(Record{Message: "explicit", Timestamp: explicit})

	snap := s.Snapshot()
	if !snap[0].Timestamp.Equal(fixed) {
		t.Fatalf("Timestamp = %v, want %v", snap[0].Timestamp, fixed)
	}
	if !snap[1].Timestamp.Equal(explicit) {
		t.Fatalf("Timestamp = %v, want %v", snap[1].Timestamp, explicit)
	}
}

func TestStore_SnapshotIsIndependentCopy(t *testing.T) {
	s := newTestStore(t, 3, 100)
	s.Log("one", SeverityInfo, "test")

	snap := s.Snapshot()
	snap[0].Message = "mutated"

	if got := s.Snapshot()[0].Message; got != "one" {
		t.Fatalf("Snapshot should copy records; got %q want %q", got, "one")
	}
}

func TestStore_Clear(t *testing.T) {
	s := newTestStore(t, 3, 100)
	s.Log("one", SeverityInfo, "a")
	s.Log("two", SeverityInfo, "b")
	before := s.Version()

	s.Clear()

	if snap := s.Snapshot(); len(snap) != 0 {
		t.Fatalf("Snapshot after Clear = %v, want empty", snap)
	}
	if got := s.Categories(); len(got) != 0 {
		t.Fatalf("Categories after Clear = %v, want empty", got)
	}
	if s.Version() <= before {
		t.Fatalf("Version did not advance on Clear")
	}

	s.Log("three", SeverityInfo, "a")
	if got := messages(s.Snapshot()); len(got) != 1 || got[0] != "three" {
		t.Fatalf("Snapshot after re-append = %v, want [three]", got)
	}
}

func TestStore_CategoryCountsFollowEviction(t *testing.T) {
	s := newTestStore(t, 3, 100)
	s.Log("1", SeverityInfo, "net")
	s.Log("2", SeverityInfo, "net")
	s.Log("3", SeverityInfo, "combat")

	got := s.Categories()
	if len(got) != 2 || got[0] != (CategoryCount{"combat", 1}) || got[1] != (CategoryCount{"net", 2}) {
		t.Fatalf("Categories = %v, want [combat:1 net:2]", got)
	}

	// evicts both "net" records
	s.Log("4", SeverityInfo, "ui")
	s.Log("5", SeverityInfo, "ui")

	got = s.Categories()
	if len(got) != 2 || got[0] != (CategoryCount{"combat", 1}) || got[1] != (CategoryCount{"ui", 2}) {
		t.Fatalf("Categories after eviction = %v, want [combat:1 ui:2]", got)
	}
}

type recordingObserver struct {
	mu       sync.Mutex
	appended []string
	evicted  []string
	cleared  []int
}

func (o *recordingObserver) Appended(rec Record) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.appended = append(o.appended, rec.Message)
}

func (o *recordingObserver) Evicted(rec Record) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.evicted = append(o.evicted, rec.Message)
}

func (o *recordingObserver) Cleared(n int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cleared = append(o.cleared, n)
}

func TestStore_NotifiesObserver(t *testing.T) {
	obs := &recordingObserver{}
	s := newTestStore(t, 2, 100, WithObserver(obs))

	s.Log("A", SeverityInfo, "")
	s.Log("B", SeverityInfo, "")
	s.Log("C", SeverityInfo, "")
	s.Clear()

	if strings.Join(obs.appended, "") != "ABC" {
		t.Fatalf("appended = %v, want [A B C]", obs.appended)
	}
	if strings.Join(obs.evicted, "") != "A" {
		t.Fatalf("evicted = %v, want [A]", obs.evicted)
	}
	if len(obs.cleared) != 1 || obs.cleared[0] != 2 {
		t.Fatalf("cleared = %v, want [2]", obs.cleared)
	}
}

func TestStore_ConcurrentAppendAndSnapshot(t *testing.T) {
	const (
		producers = 8
		perWorker = 500
		capacity  = 64
	)
	s := newTestStore(t, capacity, 100)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	readerDone := make(chan error, 1)

	go func() {
		for {
			select {
			case <-stop:
				readerDone <- nil
				return
			default:
			}
			snap := s.Snapshot()
			if len(snap) > capacity {
				readerDone <- fmt.Errorf("snapshot has %d records, want <= %d", len(snap), capacity)
				return
			}
			for i := 1; i < len(snap); i++ {
				if snap[i].Seq <= snap[i-1].Seq {
					readerDone <- fmt.Errorf("snapshot out of order at %d: %d after %d", i, snap[i].Seq, snap[i-1].Seq)
					return
				}
			}
		}
	}()

	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				s.Log(fmt.Sprintf("p%d-%d", p, i), SeverityInfo, fmt.Sprintf("worker-%d", p))
			}
		}(p)
	}
	wg.Wait()
	close(stop)

	if err := <-readerDone; err != nil {
		t.Fatal(err)
	}

	snap := s.Snapshot()
	if len(snap) != capacity {
		t.Fatalf("Len = %d, want %d", len(snap), capacity)
	}
	// The survivors are exactly the last capacity appends.
	wantFirst := uint64(producers*perWorker - capacity + 1)
	for i, rec := range snap {
		if rec.Seq != wantFirst+uint64(i) {
			t.Fatalf("snap[%d].Seq = %d, want %d", i, rec.Seq, wantFirst+uint64(i))
		}
	}
}
