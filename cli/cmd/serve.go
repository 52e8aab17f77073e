package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/warriorguo/pipeline"
	"github.com/warriorguo/pipeline/api"
	"github.com/warriorguo/pipeline/cli/output"
	"github.com/warriorguo/pipeline/config"
	"github.com/warriorguo/pipeline/events"
	"github.com/warriorguo/pipeline/metrics"
	"github.com/warriorguo/pipeline/types"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var configPath, addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the editor HTTP API",
		Long: `Start the HTTP API holding one editing session.

Examples:
  pipeline serve
  pipeline serve --config ./pipeline.yaml --addr :9090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return errors.Trace(err)
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			cfg.SetupLogging()
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides the config")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	bus := events.NewBus()
	defer bus.Close()

	runCtx, cancelRuns := context.WithCancel(ctx)
	defer cancelRuns()

	opts := append(cfg.EditorOptionFuncs(), types.WithContext(runCtx), types.WithListener(bus))
	var collector *metrics.Collector
	if cfg.Server.Metrics {
		collector = metrics.NewCollector()
		opts = append(opts, types.WithListener(collector))
	}
	editor, err := pipeline.NewEditor(opts...)
	if err != nil {
		return errors.Trace(err)
	}

	server := api.NewServer(editor, api.ServerConfig{
		Addr:        cfg.Server.Addr,
		ReadTimeout: cfg.Server.ReadTimeout,
	}, api.RouterConfig{
		Version:        Version,
		CatalogLatency: cfg.Server.CatalogLatency,
		RunCtx:         runCtx,
		Bus:            bus,
		Metrics:        collector,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()
	output.Success("pipeline editor started on %s", server.Addr())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return errors.Trace(err)
	case sig := <-quit:
		log.Infof("received %s", sig)
	case <-ctx.Done():
	}

	output.Info("shutting down...")
	cancelRuns()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		output.Error("shutdown failed: %v", err)
		return errors.Trace(err)
	}
	output.Success("stopped")
	return nil
}
