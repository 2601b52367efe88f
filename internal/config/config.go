package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/logpanel/internal/filter"
	"github.com/five82/logpanel/internal/logstore"
)

// Config is the resolved logpanel configuration.
type Config struct {
	Store   logstore.StoreConfig
	Display filter.FormatOptions
	Input   InputConfig
	Sources SourcesConfig
	Metrics MetricsConfig
	Log     LogConfig
}

// InputConfig describes how a line typed into the panel is logged.
type InputConfig struct {
	Category string
	Severity logstore.Severity
	Prefix   string
	Hint     string
}

// SourcesConfig lists the producers started alongside the panel.
type SourcesConfig struct {
	Demo         bool
	DemoInterval time.Duration
	Follow       []string
}

// MetricsConfig enables the Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string
}

// LogConfig configures the application's own diagnostics log.
type LogConfig struct {
	File  string
	Level string
}

const (
	defaultConfigPath   = "~/.config/logpanel/config.toml"
	defaultLogFile      = "~/.local/state/logpanel/logpanel.log"
	defaultLogLevel     = "info"
	defaultInputCat     = "Input"
	defaultInputHint    = "Type a message and press Enter..."
	defaultDemoInterval = 750 * time.Millisecond
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Store:   logstore.DefaultConfig(),
		Display: filter.DefaultFormat(),
		Input: InputConfig{
			Category: defaultInputCat,
			Severity: logstore.SeverityInfo,
			Hint:     defaultInputHint,
		},
		Sources: SourcesConfig{DemoInterval: defaultDemoInterval},
		Log: LogConfig{
			File:  mustExpand(defaultLogFile),
			Level: defaultLogLevel,
		},
	}
}

type rawConfig struct {
	Store struct {
		MaxRecords       *int `toml:"max_records"`
		MaxMessageLength *int `toml:"max_message_length"`
	} `toml:"store"`
	Display struct {
		TimeFormat    string `toml:"time_format"`
		TimePrecision string `toml:"time_precision"`
		ShowSeverity  *bool  `toml:"show_severity"`
		ShowCategory  *bool  `toml:"show_category"`
	} `toml:"display"`
	Input struct {
		Category string  `toml:"category"`
		Severity string  `toml:"severity"`
		Prefix   *string `toml:"prefix"`
		Hint     string  `toml:"hint"`
	} `toml:"input"`
	Sources struct {
		Demo         bool     `toml:"demo"`
		DemoInterval string   `toml:"demo_interval"`
		Follow       []string `toml:"follow"`
	} `toml:"sources"`
	Metrics struct {
		Addr string `toml:"addr"`
	} `toml:"metrics"`
	Log struct {
		File  string `toml:"file"`
		Level string `toml:"level"`
	} `toml:"log"`
}

// Load locates and parses the config, falling back to defaults when missing.
// Store limits that are present but below 1 fail with a wrapped
// *logstore.ConfigError.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.apply(raw); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) apply(raw rawConfig) error {
	if raw.Store.MaxRecords != nil {
		c.Store.MaxRecords = *raw.Store.MaxRecords
	}
	if raw.Store.MaxMessageLength != nil {
		c.Store.MaxMessageLength = *raw.Store.MaxMessageLength
	}
	if err := c.Store.Validate(); err != nil {
		return fmt.Errorf("store config: %w", err)
	}

	timeFormat, err := filter.ParseTimeFormat(raw.Display.TimeFormat)
	if err != nil {
		return fmt.Errorf("display config: %w", err)
	}
	c.Display.Time = timeFormat
	precision, err := filter.ParsePrecision(raw.Display.TimePrecision)
	if err != nil {
		return fmt.Errorf("display config: %w", err)
	}
	c.Display.Precision = precision
	if raw.Display.ShowSeverity != nil {
		c.Display.ShowSeverity = *raw.Display.ShowSeverity
	}
	if raw.Display.ShowCategory != nil {
		c.Display.ShowCategory = *raw.Display.ShowCategory
	}

	if category := strings.TrimSpace(raw.Input.Category); category != "" {
		c.Input.Category = category
	}
	if strings.TrimSpace(raw.Input.Severity) != "" {
		severity, err := logstore.ParseSeverity(raw.Input.Severity)
		if err != nil {
			return fmt.Errorf("input config: %w", err)
		}
		c.Input.Severity = severity
	}
	// A prefix may legitimately end in a space, so it is not trimmed.
	if raw.Input.Prefix != nil {
		c.Input.Prefix = *raw.Input.Prefix
	}
	if hint := strings.TrimSpace(raw.Input.Hint); hint != "" {
		c.Input.Hint = hint
	}

	c.Sources.Demo = raw.Sources.Demo
	if interval := strings.TrimSpace(raw.Sources.DemoInterval); interval != "" {
		parsed, err := time.ParseDuration(interval)
		if err != nil {
			return fmt.Errorf("sources config: demo_interval: %w", err)
		}
		if parsed <= 0 {
			return fmt.Errorf("sources config: demo_interval must be positive, got %s", parsed)
		}
		c.Sources.DemoInterval = parsed
	}
	for _, path := range raw.Sources.Follow {
		if strings.TrimSpace(path) == "" {
			continue
		}
		expanded, err := expandPath(path)
		if err != nil {
			return fmt.Errorf("sources config: follow: %w", err)
		}
		c.Sources.Follow = append(c.Sources.Follow, expanded)
	}

	c.Metrics.Addr = strings.TrimSpace(raw.Metrics.Addr)

	if file := strings.TrimSpace(raw.Log.File); file != "" {
		c.Log.File = mustExpand(file)
	}
	if level := strings.TrimSpace(raw.Log.Level); level != "" {
		c.Log.Level = strings.ToLower(level)
	}
	return nil
}

// DefaultPath returns the expanded default config location.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
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
