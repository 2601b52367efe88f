// Package prefs persists the panel state a user expects to survive a restart.
// Preferences are stored in ~/.config/logpanel/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/logpanel/internal/filter"
	"github.com/five82/logpanel/internal/logstore"
)

// Prefs holds user preferences for the panel.
type Prefs struct {
	Theme            string            `toml:"theme"`
	MinSeverity      logstore.Severity `toml:"min_severity"`
	CaseSensitive    bool              `toml:"case_sensitive"`
	UseRegex         bool              `toml:"use_regex"`
	HiddenCategories []string          `toml:"hidden_categories"`
	TimeFormat       filter.TimeFormat `toml:"time_format,omitempty"`
	TimePrecision    filter.Precision  `toml:"time_precision,omitempty"`
}

const (
	defaultPrefsPath = "~/.config/logpanel/prefs.toml"
	defaultTheme     = "Nightfox"
)

// Default returns the preferences used before anything is saved.
func Default() Prefs {
	return Prefs{Theme: defaultTheme, MinSeverity: logstore.SeverityDebug}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from the given path, falling back to defaults if
// missing or unreadable.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Default(), nil
	}

	prefs := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return prefs, nil
		}
		return prefs, nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return prefs, nil // Graceful degradation
	}

	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return Default(), nil // Graceful degradation
	}

	if strings.TrimSpace(prefs.Theme) == "" {
		prefs.Theme = defaultTheme
	}
	if !prefs.MinSeverity.Valid() {
		prefs.MinSeverity = logstore.SeverityDebug
	}
	if _, err := filter.ParseTimeFormat(string(prefs.TimeFormat)); err != nil {
		prefs.TimeFormat = ""
	}
	if _, err := filter.ParsePrecision(string(prefs.TimePrecision)); err != nil {
		prefs.TimePrecision = ""
	}
	prefs.HiddenCategories = normalizeCategories(prefs.HiddenCategories)

	return prefs, nil
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	p.HiddenCategories = normalizeCategories(p.HiddenCategories)
	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

// HiddenSet converts the hidden category list to the filter's lookup form.
func (p Prefs) HiddenSet() map[string]bool {
	set := make(map[string]bool, len(p.HiddenCategories))
	for _, name := range p.HiddenCategories {
		set[name] = true
	}
	return set
}

// SetHidden stores the hidden categories from a filter lookup set.
func (p *Prefs) SetHidden(set map[string]bool) {
	names := make([]string, 0, len(set))
	for name, hidden := range set {
		if hidden {
			names = append(names, name)
		}
	}
	p.HiddenCategories = normalizeCategories(names)
}

// normalizeCategories sorts and dedupes. Names are kept verbatim since
// category matching is case-sensitive.
func normalizeCategories(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	out := append([]string(nil), names...)
	sort.Strings(out)
	n := 0
	for i, name := range out {
		if i > 0 && name == out[n-1] {
			continue
		}
		out[n] = name
		n++
	}
	return out[:n]
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
