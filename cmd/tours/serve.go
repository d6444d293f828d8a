package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tours365/internal/catalog"
	"tours365/internal/listing"
	"tours365/internal/observability"
)

func newServeCmd(a *app) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the listing API",
		Long: `Starts the listing API and the metrics endpoint.

Snapshot files are reloaded when they change on disk.`,
		Example: `  # Serve snapshots on $HTTP_PORT
  tours serve

  # Serve live partner data with redis caching
  LISTING_SOURCE=live REDIS_URL=redis://localhost:6379/0 tours serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if port == "" {
				port = a.cfg.HTTPPort
			}

			res := &resources{}
			defer res.Close()

			source, err := a.listingSource(ctx, res, true)
			if err != nil {
				return err
			}

			engine := catalog.NewEngine(catalog.Config{PageSize: a.cfg.PageSize})
			handler := &listing.Handler{
				Service: &listing.Service{Sites: a.sites, Source: source, Engine: engine, Logger: a.logger},
				Logger:  a.logger,
			}

			metrics := observability.Start(a.cfg.MetricsPort, a.logger)

			server := &http.Server{
				Addr:              ":" + port,
				Handler:           handler.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			serverErr := make(chan error, 1)
			go func() {
				a.logger.Info("[HTTP] listening",
					zap.String("addr", server.Addr),
					zap.String("source", a.cfg.ListingSource),
					zap.Strings("sites", a.sites.IDs()),
				)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			select {
			case <-ctx.Done():
				a.logger.Info("[HTTP] shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = metrics.Shutdown(shutdownCtx)
				if err := server.Shutdown(shutdownCtx); err != nil {
					a.logger.Error("[HTTP] shutdown failed", zap.Error(err))
					return err
				}
				a.logger.Info("[HTTP] stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "port to listen on (default $HTTP_PORT)")

	return cmd
}
