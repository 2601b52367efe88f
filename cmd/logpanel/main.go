package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/logpanel/internal/app"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "logpanel: %v\n", err)
		return 1
	}
	return 0
}

func rootCmd() *cobra.Command {
	var opts app.Options

	cmd := &cobra.Command{
		Use:           "logpanel",
		Short:         "Filterable terminal log panel",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.ConfigPath, "config", "", "config file path (default ~/.config/logpanel/config.toml)")
	flags.StringVar(&opts.PrefsPath, "prefs", "", "panel preferences path (default ~/.config/logpanel/prefs.toml)")
	flags.StringSliceVarP(&opts.Follow, "follow", "f", nil, "log file to tail (repeatable)")
	flags.BoolVar(&opts.Demo, "demo", false, "generate sample records")
	flags.StringVar(&opts.MetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	flags.StringVar(&opts.LogFile, "log-file", "", "write logpanel's own log to this file")
	return cmd
}
