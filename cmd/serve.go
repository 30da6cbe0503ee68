package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"graphboard/metrics"
	"graphboard/server"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the configured store over HTTP",
		Long: "Serve exposes the store as the REST API used by the remote driver,\n" +
			"with Prometheus metrics on /metrics.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg := a.cfg.Server
			if addr != "" {
				cfg.Addr = addr
			}
			m := metrics.NewCollector(a.cfg.MetricsNamespace)
			s, closeStore, err := a.openStore(ctx, m)
			if err != nil {
				return err
			}
			defer closeStore()

			srv := server.New(cfg, s, m, a.logger)
			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()
			Good.Fprintf(cmd.ErrOrStderr(), "Serving %s store on %s\n", a.cfg.Store.Driver, cfg.Addr)

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.logger.Error("shutdown", zap.Error(err))
				return err
			}
			a.logger.Info("server stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}
