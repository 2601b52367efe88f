package prefs

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/five82/logpanel/internal/filter"
	"github.com/five82/logpanel/internal/logstore"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
	if p.MinSeverity != logstore.SeverityDebug {
		t.Fatalf("MinSeverity = %v, want DEBUG", p.MinSeverity)
	}
}

func TestLoad_ReadsExistingFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	prefsDir := filepath.Join(home, ".config", "logpanel")
	if err := os.MkdirAll(prefsDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	prefsFile := filepath.Join(prefsDir, "prefs.toml")
	body := `theme = "Slate"
min_severity = "warn"
case_sensitive = true
use_regex = true
hidden_categories = ["net", "combat", "net"]
time_format = "utc"
`
	if err := os.WriteFile(prefsFile, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != "Slate" {
		t.Fatalf("Theme = %q, want %q", p.Theme, "Slate")
	}
	if p.MinSeverity != logstore.SeverityWarn {
		t.Fatalf("MinSeverity = %v, want WARN", p.MinSeverity)
	}
	if !p.CaseSensitive || !p.UseRegex {
		t.Fatalf("toggles = case %v regex %v, want both true", p.CaseSensitive, p.UseRegex)
	}
	if !reflect.DeepEqual(p.HiddenCategories, []string{"combat", "net"}) {
		t.Fatalf("HiddenCategories = %v, want [combat net]", p.HiddenCategories)
	}
	if p.TimeFormat != filter.TimeUTC {
		t.Fatalf("TimeFormat = %q, want utc", p.TimeFormat)
	}
}

func TestLoad_ExplicitPath(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "custom.toml")
	if err := os.WriteFile(prefsFile, []byte("theme = \"Slate\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != "Slate" {
		t.Fatalf("Theme = %q, want %q", p.Theme, "Slate")
	}
}

func TestSave_CreatesFileAndDirs(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "subdir", "prefs.toml")

	p := Prefs{
		Theme:            "Kanagawa",
		MinSeverity:      logstore.SeverityError,
		UseRegex:         true,
		HiddenCategories: []string{"ui", "Combat"},
		TimeFormat:       filter.TimeHide,
		TimePrecision:    filter.PrecisionMillis,
	}
	if err := Save(prefsFile, p); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	raw, err := os.ReadFile(prefsFile)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(raw), "min_severity = 'error'") && !strings.Contains(string(raw), `min_severity = "error"`) {
		t.Fatalf("saved prefs should store severity by name, got:\n%s", raw)
	}

	loaded, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := Prefs{
		Theme:            "Kanagawa",
		MinSeverity:      logstore.SeverityError,
		UseRegex:         true,
		HiddenCategories: []string{"Combat", "ui"},
		TimeFormat:       filter.TimeHide,
		TimePrecision:    filter.PrecisionMillis,
	}
	if !reflect.DeepEqual(loaded, want) {
		t.Fatalf("loaded = %+v, want %+v", loaded, want)
	}
}

func TestLoad_EmptyThemeFallsBackToDefault(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "prefs.toml")
	if err := os.WriteFile(prefsFile, []byte("theme = \"\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
}

func TestLoad_InvalidValuesFallBackToDefault(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid toml", "not valid toml {{{\n"},
		{"unknown severity", "theme = \"Slate\"\nmin_severity = \"loud\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefsFile := filepath.Join(t.TempDir(), "prefs.toml")
			if err := os.WriteFile(prefsFile, []byte(tt.body), 0o644); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}

			p, err := Load(prefsFile)
			if err != nil {
				t.Fatalf("Load returned error: %v", err)
			}
			if !reflect.DeepEqual(p, Default()) {
				t.Fatalf("Load = %+v, want defaults %+v", p, Default())
			}
		})
	}
}

func TestLoad_UnknownTimeFormatIsDropped(t *testing.T) {
	prefsFile := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(prefsFile, []byte("time_format = \"iso\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	p, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.TimeFormat != "" {
		t.Fatalf("TimeFormat = %q, want empty", p.TimeFormat)
	}
}

func TestLoad_UnknownPrecisionIsDropped(t *testing.T) {
	prefsFile := filepath.Join(t.TempDir(), "prefs.toml")
	body := "time_format = \"utc\"\ntime_precision = \"nanos\"\n"
	if err := os.WriteFile(prefsFile, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	p, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.TimePrecision != "" || p.TimeFormat != filter.TimeUTC {
		t.Fatalf("TimePrecision = %q TimeFormat = %q, want empty and utc", p.TimePrecision, p.TimeFormat)
	}
}

func TestHiddenSetRoundTrip(t *testing.T) {
	var p Prefs
	p.SetHidden(map[string]bool{"net": true, "ui": false, "combat": true})
	if !reflect.DeepEqual(p.HiddenCategories, []string{"combat", "net"}) {
		t.Fatalf("HiddenCategories = %v, want [combat net]", p.HiddenCategories)
	}
	set := p.HiddenSet()
	if !set["net"] || !set["combat"] || set["ui"] {
		t.Fatalf("HiddenSet = %v", set)
	}
}
