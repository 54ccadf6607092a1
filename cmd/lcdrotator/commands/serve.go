package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/systmms/lcdrotator/internal/config"
	"github.com/systmms/lcdrotator/internal/metrics"
	"github.com/systmms/lcdrotator/internal/server"
)

const shutdownTimeout = 5 * time.Second

func NewServeCommand(cfg *config.Config) *cobra.Command {
	var (
		listen        string
		enableMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host rotators for lcd4linux widgets",
		Long: `Run the long-lived process that owns every rotator.

Rotators are created the first time a request names them and live until the
server stops. Rotators listed in the config file are created at startup, so
requests for them may omit the KEY=VALUE pairs.

Endpoints:
  POST /v1/request      request string in the body, reply in the body
  GET  /v1/request?q=   same, for pollers that can only GET
  GET  /v1/rotators     current state of every rotator as JSON
  GET  /health          liveness
  GET  /metrics         Prometheus metrics (when enabled)`,
		Example: `  # Serve on the configured address
  lcdrotator serve

  # Serve on another port with metrics
  lcdrotator serve --listen 127.0.0.1:9000 --metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger(cfg)

			recorder := metrics.NewRecorder()
			h, err := newHandler(cfg, recorder)
			if err != nil {
				return err
			}

			srvCfg := server.DefaultConfig()
			srvCfg.Listen = cfg.ListenAddr()
			srvCfg.ReadTimeout = cfg.Definition.Server.ReadTimeout()
			srvCfg.WriteTimeout = cfg.Definition.Server.WriteTimeout()
			srvCfg.MetricsEnabled = cfg.Definition.Metrics.Enabled
			srvCfg.MetricsPath = cfg.Definition.Metrics.MetricsPath()

			if cmd.Flags().Changed("listen") {
				srvCfg.Listen = listen
			}
			if cmd.Flags().Changed("metrics") {
				srvCfg.MetricsEnabled = enableMetrics
			}
			if srvCfg.MetricsEnabled {
				metrics.Init()
				recorder.SetRotators(h.Registry().Len())
			}

			srv := server.New(srvCfg, h, log)
			if err := srv.Start(); err != nil {
				return fmt.Errorf("failed to start server on %s: %w", srvCfg.Listen, err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()

			log.Info("Shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Stop(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", config.DefaultListen, "Address to listen on (overrides server.listen)")
	cmd.Flags().BoolVar(&enableMetrics, "metrics", false, "Serve Prometheus metrics (overrides metrics.enabled)")

	return cmd
}
