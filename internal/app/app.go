package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/five82/logpanel/internal/config"
	"github.com/five82/logpanel/internal/ingest"
	"github.com/five82/logpanel/internal/logstore"
	"github.com/five82/logpanel/internal/metrics"
	"github.com/five82/logpanel/internal/prefs"
	"github.com/five82/logpanel/internal/ui"
)

// appCategory is the category of logpanel's own diagnostics in the panel.
const appCategory = "app"

// Options configure the logpanel application. Non-zero fields override the
// config file.
type Options struct {
	ConfigPath  string
	PrefsPath   string   // empty uses default ~/.config/logpanel/prefs.toml
	Follow      []string // added to [sources] follow
	Demo        bool
	MetricsAddr string
	LogFile     string
}

// apply merges command-line overrides into cfg. Follow paths are expanded
// the same way the config file's are.
func (o Options) apply(cfg *config.Config) error {
	follow := make([]string, 0, len(o.Follow))
	for _, path := range o.Follow {
		if path == "" {
			continue
		}
		expanded, err := config.ExpandPath(path)
		if err != nil {
			return fmt.Errorf("follow %q: %w", path, err)
		}
		follow = append(follow, expanded)
	}
	cfg.Sources.Follow = appendUnique(cfg.Sources.Follow, follow...)
	if o.Demo {
		cfg.Sources.Demo = true
	}
	if o.MetricsAddr != "" {
		cfg.Metrics.Addr = o.MetricsAddr
	}
	if o.LogFile != "" {
		cfg.Log.File = o.LogFile
	}
	return nil
}

// Run boots the panel and its producers until the UI exits or ctx is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := opts.apply(&cfg); err != nil {
		return err
	}

	logger, closeLog, err := setupLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, _ := prefs.Load(prefsPath)

	registry := prometheus.NewRegistry()
	observer, err := metrics.NewObserver(registry)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	store, err := logstore.New(cfg.Store, logstore.WithObserver(observer))
	if err != nil {
		return fmt.Errorf("create log store: %w", err)
	}
	logger.AddHook(ingest.NewHook(store, appCategory, logger.GetLevel()))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	startProducers(ctx, &wg, cfg, store, logger)

	if cfg.Metrics.Addr != "" {
		server := metrics.NewServer(cfg.Metrics.Addr, registry)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := server.Run(ctx); err != nil {
				logger.WithError(err).Error("metrics server stopped")
			}
		}()
		logger.WithField("addr", cfg.Metrics.Addr).Info("serving metrics")
	}

	logger.WithFields(logrus.Fields{
		"max_records": cfg.Store.MaxRecords,
		"follow":      len(cfg.Sources.Follow),
		"demo":        cfg.Sources.Demo,
	}).Info("logpanel started")

	err = ui.Run(ui.Options{
		Context:   ctx,
		Store:     store,
		Display:   cfg.Display,
		Input:     cfg.Input,
		Prefs:     userPrefs,
		PrefsPath: prefsPath,
		OnError: func(err error) {
			logger.WithError(err).Warn("panel action failed")
		},
	})

	cancel()
	wg.Wait()
	if err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

// startProducers launches the configured record sources.
func startProducers(ctx context.Context, wg *sync.WaitGroup, cfg config.Config, store *logstore.Store, logger *logrus.Logger) {
	for _, path := range cfg.Sources.Follow {
		StartFollower(ctx, wg, path, store, cfg.Store.MaxRecords, logger)
	}
	if cfg.Sources.Demo {
		StartDemo(ctx, wg, store, cfg.Sources.DemoInterval)
	}
}

func appendUnique(list []string, values ...string) []string {
	seen := make(map[string]bool, len(list))
	for _, v := range list {
		seen[v] = true
	}
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		list = append(list, v)
	}
	return list
}
