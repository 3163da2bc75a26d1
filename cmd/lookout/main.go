package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/lookout/internal/app"
	"github.com/five82/lookout/internal/prefs"
)

// Version is set during build
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "lookout: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var opts app.Options

	watch := func(cmd *cobra.Command, _ []string) error {
		return app.Run(cmd.Context(), opts)
	}

	root := &cobra.Command{
		Use:   "lookout",
		Short: "Live log tail viewer",
		Long: `lookout follows a character's log from a /logs-data endpoint. It supports:
  - Incremental polling with automatic reconnect
  - Severity filtering and search with match navigation
  - A bounded line buffer with a configurable cap
  - A plain tail mode and a companion log server`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          watch,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "config file (default ~/.config/lookout/config.toml)")
	flags.StringVar(&opts.EnvFile, "env-file", "", "env file with LOOKOUT_* overrides (default ./.env)")
	flags.StringVar(&opts.PrefsPath, "prefs", "", "preferences file (default "+prefs.DefaultPath()+")")
	flags.StringVar(&opts.Character, "character", "", "character whose log to follow")
	flags.StringVar(&opts.Endpoint, "endpoint", "", "log server base URL or host:port")
	flags.DurationVar(&opts.PollEvery, "poll", 0, "poll interval (default 1s)")
	flags.StringVar(&opts.Level, "level", "", "minimum severity: trace, debug, info, warn, error")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debug logging")

	root.SetVersionTemplate("lookout version {{.Version}}\n")
	root.AddCommand(
		&cobra.Command{
			Use:   "watch",
			Short: "Open the interactive viewer (default)",
			Args:  cobra.NoArgs,
			RunE:  watch,
		},
		&cobra.Command{
			Use:   "tail",
			Short: "Print new log lines to stdout",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return app.Tail(cmd.Context(), opts, cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:   "serve",
			Short: "Serve a log directory over /logs-data",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return app.Serve(cmd.Context(), opts)
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Show version",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "lookout version %s\n", Version)
			},
		},
	)
	return root
}
