package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"ollamagate/pkg/backend"
	"ollamagate/pkg/config"
	"ollamagate/pkg/endpoints"
	"ollamagate/pkg/history"
	"ollamagate/pkg/relay"
	"ollamagate/pkg/server"
	"ollamagate/pkg/telemetry/logging"
	"ollamagate/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the gateway server",
	Long: `Start the gateway server with the specified configuration.

Examples:
  # Start with defaults
  ollamagate run

  # Start with a custom config
  ollamagate run --config /etc/ollamagate/config.yaml

  # Override the listen address
  ollamagate run --listen 0.0.0.0:8080

  # Validate config without starting the server
  ollamagate run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Logging.Level = runFlags.logLevel
	}

	logging.Setup(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	registry := endpoints.Parse(cfg.Endpoints.Raw)
	slog.Info("endpoint registry loaded", "endpoints", registry.Len())

	if runFlags.dryRun {
		fmt.Println("configuration is valid")
		return nil
	}

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(nil)
	}

	active := endpoints.NewActiveTarget()
	client := backend.NewClient(registry, active, backend.Options{
		Timeout: cfg.Backend.RequestTimeout,
		Metrics: collector,
	})

	var store *history.Store
	if cfg.History.Enabled {
		store, err = history.Open(cfg.History.Path)
		if err != nil {
			return fmt.Errorf("failed to open history store: %w", err)
		}
		defer store.Close()
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sweeper := backend.NewSweeper(client, cfg.Sweep.Schedule)
	if err := sweeper.Start(ctx); err != nil {
		return err
	}
	defer sweeper.Stop()

	if cfg.Endpoints.Watch && cfgFile != "" {
		watcher, err := config.NewWatcher(cfgFile, func(next *config.Config) {
			client.SetRegistry(endpoints.Parse(next.Endpoints.Raw))
			slog.Info("endpoint registry reloaded",
				"endpoints", client.Registry().Len())
		})
		if err != nil {
			return fmt.Errorf("failed to create config watcher: %w", err)
		}
		if err := watcher.Start(); err != nil {
			return fmt.Errorf("failed to start config watcher: %w", err)
		}
		defer watcher.Stop()
	}

	srv := server.New(server.Options{
		Config:  cfg,
		Client:  client,
		Active:  active,
		Relay:   relay.New(client, collector),
		History: store,
		Metrics: collector,
	})

	return srv.Start(ctx)
}
