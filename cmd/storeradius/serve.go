package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/high-creek-software/storeradius"
	"github.com/high-creek-software/storeradius/handlers"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the store listing and radius search over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		resolver, closeResolver, err := newResolver(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer closeResolver()

		catalog, err := storeradius.NewCatalogLoader(ctx, cfg.Catalog, logger)
		if err != nil {
			return err
		}

		handler, err := handlers.New(storeradius.NewFinder(catalog, resolver, logger), logger)
		if err != nil {
			return err
		}

		srv := &http.Server{Addr: cfg.Server.Addr, Handler: handler}
		errCh := make(chan error, 1)
		go func() {
			logger.Info("server started", "addr", cfg.Server.Addr, "geocoder", cfg.Geocoder.Provider, "catalog", cfg.Catalog.Source)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err = <-errCh:
			if err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
	serveCmd.Flags().String("catalog", "data/stores.json", "store catalog: .json file, .dbf table or s3://bucket/key")
	serveCmd.Flags().String("geocoder-url", storeradius.DefaultPostcodesURL, "postcodes.io compatible lookup URL")

	bindFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	bindFlag("catalog.source", serveCmd.Flags().Lookup("catalog"))
	bindFlag("geocoder.url", serveCmd.Flags().Lookup("geocoder-url"))
}
