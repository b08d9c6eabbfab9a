package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"mercator-hq/callisto/pkg/authorizer"
	"mercator-hq/callisto/pkg/config"
	"mercator-hq/callisto/pkg/eventlog"
	"mercator-hq/callisto/pkg/fsmonitor"
	"mercator-hq/callisto/pkg/server"
	"mercator-hq/callisto/pkg/telemetry/logging"
	"mercator-hq/callisto/pkg/telemetry/metrics"
	"mercator-hq/callisto/pkg/watchitems"
)

var runFlags struct {
	watchItemsPath string
	logLevel       string
	dryRun         bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Callisto agent",
	Long: `Start the Callisto agent with the specified configuration.

The agent loads the watch-items document, begins the periodic reload task,
and (when enabled) registers filesystem watches on the monitored paths,
authorizes events against the active policy snapshot, records decisions to
the event log, and serves status and metrics over HTTP.

Examples:
  # Start with default config
  callisto run

  # Start with custom config
  callisto run --config /etc/callisto/config.yaml

  # Override the watch-items document location
  callisto run --watch-items /tmp/watchitems.yaml

  # Validate config without starting the agent
  callisto run --dry-run`,
	RunE: runAgent,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runFlags.watchItemsPath, "watch-items", "", "override watch-items document path")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the agent")
}

func runAgent(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Apply flag overrides
	if runFlags.watchItemsPath != "" {
		cfg.WatchItems.ConfigPath = runFlags.watchItemsPath
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger, closeLog, err := logging.New(cfg.Telemetry.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer closeLog()
	slog.SetDefault(logger)

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Metrics collector (if enabled)
	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(&cfg.Telemetry.Metrics, prometheus.NewRegistry())
	}

	// Watch-item policy engine
	items, err := watchitems.New(cfg.WatchItems.ConfigPath, cfg.WatchItems.ReloadInterval, logger, collector)
	if err != nil {
		return fmt.Errorf("failed to create watch-item engine: %w", err)
	}
	items.BeginPeriodicTask()
	defer items.Stop()
	fmt.Printf("✓ Watch-item engine started (document: %s, reload every %s)\n",
		cfg.WatchItems.ConfigPath, cfg.WatchItems.ReloadInterval)

	// Event log (if enabled)
	var store *eventlog.Store
	if cfg.EventLog.Enabled {
		store, err = eventlog.NewStore(eventlog.StoreConfig{
			DBPath:       cfg.EventLog.DatabasePath,
			MaxOpenConns: cfg.EventLog.MaxOpenConns,
			MaxIdleConns: cfg.EventLog.MaxIdleConns,
			BusyTimeout:  cfg.EventLog.BusyTimeout,
		})
		if err != nil {
			return fmt.Errorf("failed to open event log: %w", err)
		}
		defer store.Close()

		if cfg.EventLog.PruneSchedule != "" {
			pruner := eventlog.NewPruner(store, cfg.EventLog.RetentionDays, cfg.EventLog.MaxRecords, logger)
			scheduler := eventlog.NewScheduler(pruner, cfg.EventLog.PruneSchedule)
			if err := scheduler.Start(ctx); err != nil {
				logger.Warn("failed to start retention scheduler", "error", err)
			} else {
				defer scheduler.Stop()
			}
		}
		fmt.Println("✓ Event log initialized")
	}

	auth := authorizer.New(items, logger, collector, store)

	// Filesystem monitor (if enabled)
	var monitor *fsmonitor.Monitor
	if cfg.Monitor.Enabled {
		monitor, err = fsmonitor.New(logger, collector)
		if err != nil {
			return fmt.Errorf("failed to create filesystem monitor: %w", err)
		}
		defer monitor.Close()

		go func() {
			err := monitor.Run(ctx, items, func(e fsmonitor.Event) {
				auth.Authorize(ctx, e.Path, e.Op, authorizer.Evidence{})
			})
			if err != nil {
				logger.Error("filesystem monitor exited", "error", err)
			}
		}()
		fmt.Println("✓ Filesystem monitor started")
	}

	// Status server (if enabled)
	serverErr := make(chan error, 1)
	if cfg.Server.Enabled {
		srv := server.NewServer(cfg.Server, items, collector, logger)
		go func() {
			if err := srv.Start(ctx); err != nil {
				serverErr <- err
			}
		}()
		fmt.Printf("✓ Status server listening on %s\n", cfg.Server.ListenAddress)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-serverErr:
		logger.Error("status server failed", "error", err)
		cancel()
		return err
	}

	cancel()
	fmt.Println("✓ Shutdown complete")
	return nil
}
