package filter

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/logpanel/internal/logstore"
	"github.com/five82/logpanel/internal/search"
)

func sampleRecords() []logstore.Record {
	base := time.Date(2025, 12, 13, 10, 0, 0, 0, time.UTC)
	return []logstore.Record{
		{Seq: 1, Message: "boot complete", Severity: logstore.SeverityDebug, Category: "system", Timestamp: base},
		{Seq: 2, Message: "player joined", Severity: logstore.SeverityInfo, Category: "net", Timestamp: base.Add(time.Second)},
		{Seq: 3, Message: "hit for 12", Severity: logstore.SeverityInfo, Category: "combat", Timestamp: base.Add(2 * time.Second)},
		{Seq: 4, Message: "packet loss 30%", Severity: logstore.SeverityWarn, Category: "net", Timestamp: base.Add(3 * time.Second)},
		{Seq: 5, Message: "Combat desync", Severity: logstore.SeverityError, Category: "combat", Timestamp: base.Add(4 * time.Second)},
	}
}

func seqs(records []logstore.Record) []uint64 {
	out := make([]uint64, len(records))
	for i, rec := range records {
		out[i] = rec.Seq
	}
	return out
}

func mustCompile(t *testing.T, term string, useRegex, caseSensitive bool) search.Matcher {
	t.Helper()
	m, err := search.Compile(term, useRegex, caseSensitive)
	if err != nil {
		t.Fatalf("Compile(%q) returned error: %v", term, err)
	}
	return m
}

func TestApply(t *testing.T) {
	records := sampleRecords()

	tests := []struct {
		name string
		cfg  Config
		term string
		want []uint64
	}{
		{"no filters", Config{}, "", []uint64{1, 2, 3, 4, 5}},
		{"severity floor", Config{MinSeverity: logstore.SeverityWarn}, "", []uint64{4, 5}},
		{"category", Config{Category: "net"}, "", []uint64{2, 4}},
		{"category is case-sensitive", Config{Category: "Combat"}, "", []uint64{}},
		{"hidden category", Config{HiddenCategories: map[string]bool{"net": true}}, "", []uint64{1, 3, 5}},
		{"hidden false is shown", Config{HiddenCategories: map[string]bool{"net": false}}, "", []uint64{1, 2, 3, 4, 5}},
		{"search", Config{}, "combat", []uint64{5}},
		{"all combined", Config{MinSeverity: logstore.SeverityInfo, Category: "combat"}, "hit", []uint64{3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := seqs(Apply(records, tt.cfg, mustCompile(t, tt.term, false, false)))
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Apply = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApply_CategoryUnsetIncludesAnyCase(t *testing.T) {
	records := []logstore.Record{{Seq: 1, Message: "x", Category: "combat"}}

	if got := Apply(records, Config{Category: "Combat"}, nil); len(got) != 0 {
		t.Fatalf("Category=Combat kept %v, want none", seqs(got))
	}
	if got := Apply(records, Config{}, nil); len(got) != 1 {
		t.Fatalf("unset Category kept %v, want [1]", seqs(got))
	}
}

func TestApply_IsIdempotentAndPure(t *testing.T) {
	records := sampleRecords()
	cfg := Config{MinSeverity: logstore.SeverityInfo}
	m := mustCompile(t, "n", false, false)

	first := Apply(records, cfg, m)
	second := Apply(records, cfg, m)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Apply not idempotent: %v vs %v", seqs(first), seqs(second))
	}
	if !reflect.DeepEqual(records, sampleRecords()) {
		t.Fatalf("Apply modified its input")
	}
}

func TestApply_RaisingFloorNeverGrowsResult(t *testing.T) {
	records := sampleRecords()
	for _, term := range []string{"", "e", "net"} {
		m := mustCompile(t, term, false, false)
		prev := len(records) + 1
		for _, floor := range logstore.Severities {
			n := len(Apply(records, Config{MinSeverity: floor}, m))
			if n > prev {
				t.Fatalf("term %q: floor %v kept %d records, more than %d at the previous floor", term, floor, n, prev)
			}
			prev = n
		}
	}
}

func TestIndicesMatchesApply(t *testing.T) {
	records := sampleRecords()
	cfg := Config{MinSeverity: logstore.SeverityInfo, HiddenCategories: map[string]bool{"combat": true}}
	m := mustCompile(t, "p", false, true)

	idx := Indices(records, cfg, m)
	applied := Apply(records, cfg, m)
	if len(idx) != len(applied) {
		t.Fatalf("Indices len = %d, Apply len = %d", len(idx), len(applied))
	}
	for i, pos := range idx {
		if records[pos].Seq != applied[i].Seq {
			t.Fatalf("Indices[%d] -> seq %d, Apply[%d] seq %d", i, records[pos].Seq, i, applied[i].Seq)
		}
	}
}

func TestConfigActive(t *testing.T) {
	if (Config{}).Active() {
		t.Fatalf("zero Config should be inactive")
	}
	if (Config{HiddenCategories: map[string]bool{"a": false}}).Active() {
		t.Fatalf("Config with only unhidden categories should be inactive")
	}
	active := []Config{
		{MinSeverity: logstore.SeverityInfo},
		{Category: "net"},
		{SearchTerm: "x"},
		{HiddenCategories: map[string]bool{"a": true}},
	}
	for _, cfg := range active {
		if !cfg.Active() {
			t.Fatalf("Config %+v should be active", cfg)
		}
	}
}

func TestQuery_EndToEnd(t *testing.T) {
	store, err := logstore.New(logstore.StoreConfig{MaxRecords: 3, MaxMessageLength: 100})
	if err != nil {
		t.Fatalf("logstore.New returned error: %v", err)
	}
	store.Log("A", logstore.SeverityInfo, "test")
	store.Log("B", logstore.SeverityInfo, "test")
	store.Log("C", logstore.SeverityWarn, "test")
	store.Log("D says FOO", logstore.SeverityError, "test")

	compiler := search.NewCompiler()

	res := Query(store, Config{}, compiler)
	if got := messagesOf(res.Records); !reflect.DeepEqual(got, []string{"B", "C", "D says FOO"}) {
		t.Fatalf("unfiltered = %v, want [B C D says FOO]", got)
	}

	cfg := Config{MinSeverity: logstore.SeverityWarn}
	res = Query(store, cfg, compiler)
	if got := messagesOf(res.Records); !reflect.DeepEqual(got, []string{"C", "D says FOO"}) {
		t.Fatalf("Warn floor = %v, want [C D says FOO]", got)
	}

	cfg.SearchTerm = "foo"
	res = Query(store, cfg, compiler)
	if got := messagesOf(res.Records); !reflect.DeepEqual(got, []string{"D says FOO"}) {
		t.Fatalf("search foo = %v, want [D says FOO]", got)
	}
	if res.Total != 3 {
		t.Fatalf("Total = %d, want 3", res.Total)
	}

	// Same key on the next frame must not recompile.
	before := compiler.Compilations()
	Query(store, cfg, compiler)
	if compiler.Compilations() != before {
		t.Fatalf("Query recompiled an unchanged search")
	}
}

func TestQuery_CompileErrorMatchesNothing(t *testing.T) {
	store, err := logstore.New(logstore.DefaultConfig())
	if err != nil {
		t.Fatalf("logstore.New returned error: %v", err)
	}
	store.Log("(unclosed", logstore.SeverityInfo, "test")

	res := Query(store, Config{SearchTerm: "(unclosed", UseRegex: true}, search.NewCompiler())
	var compileErr *search.CompileError
	if !errors.As(res.Err, &compileErr) {
		t.Fatalf("Err = %v, want *search.CompileError", res.Err)
	}
	if len(res.Records) != 0 {
		t.Fatalf("Records = %v, want none", messagesOf(res.Records))
	}
	if res.Total != 1 {
		t.Fatalf("Total = %d, want 1", res.Total)
	}
}

func messagesOf(records []logstore.Record) []string {
	out := make([]string, len(records))
	for i, rec := range records {
		out[i] = rec.Message
	}
	return out
}
