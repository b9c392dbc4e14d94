package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"frontier/internal/activities"
	"frontier/internal/api"
	"frontier/internal/workflows"
	"frontier/pkg/log"

	"github.com/spf13/cobra"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long:  `Serves the session API. With FRONTIER_TEMPORAL_ENABLED=true it also runs a Temporal worker for background discoveries.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		ctx, cfg, flushLog, err := setup(ctx)
		defer flushLog()
		if err != nil {
			return err
		}
		logger := log.FromCtx(ctx)

		st, err := newStack(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		var runner api.DiscoveryRunner
		if cfg.TemporalEnabled {
			c, err := client.Dial(client.Options{HostPort: cfg.TemporalAddress})
			if err != nil {
				return err
			}
			defer c.Close()

			w := worker.New(c, cfg.TemporalTaskQueue, worker.Options{})
			workflows.Register(w)
			activities.Register(w, activities.New(st.registry))
			if err := w.Start(); err != nil {
				return err
			}
			defer w.Stop()
			runner = workflows.NewDiscoveries(c, cfg.TemporalTaskQueue)
			logger.Info().Str("address", cfg.TemporalAddress).Str("queue", cfg.TemporalTaskQueue).Msg("temporal worker started")
		}

		srv := &http.Server{
			Addr:              cfg.APIAddr,
			Handler:           api.NewServer(ctx, st.registry, runner, cfg.SummaryWorkers).WithProviders(st.manager.ProviderNames()).Routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		errCh := make(chan error, 1)
		go func() {
			logger.Info().Str("addr", cfg.APIAddr).Strs("llm_providers", st.manager.ProviderNames()).Msg("frontier api listening")
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("http shutdown failed")
		}
		logger.Info().Msg("frontier has been shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
