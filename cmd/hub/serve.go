package main

import (
	"os/signal"
	"syscall"

	"github.com/sourcegraph/conc"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and websocket concierge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			c := rt.container
			loaded := c.LoadCatalog(ctx)
			rt.logger.Info("Catalog loaded",
				zap.String("source", loaded.Source),
				zap.Int("tools", loaded.Count),
			)

			srv := c.NewServer()

			var wg conc.WaitGroup
			var serveErr error
			wg.Go(func() {
				serveErr = srv.Run(ctx)
				stop()
			})
			if interval := c.Config.Sync.Interval; interval > 0 {
				rt.logger.Info("Periodic sync enabled", zap.Duration("interval", interval))
				wg.Go(func() { c.Sync.Run(ctx, interval) })
			}

			wg.Wait()
			rt.logger.Info("Shutdown complete")
			return serveErr
		},
	}
}
