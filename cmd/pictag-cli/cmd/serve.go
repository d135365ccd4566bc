package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pictag/internal/adapters/httpapi"
	"pictag/internal/application"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the search API over HTTP",
	Long: `Serve the local HTTP search API. The tag tree file is watched and
reloaded when it changes on disk.

Endpoints:
  GET  /api/ping
  GET  /api/search?include=..&exclude=..
  GET  /api/tags/{name}
  GET  /api/tags/{name}/descendants?synonyms=true
  POST /api/index/rebuild`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env.EnsureIndex()
		catalog := application.NewGuarded(env.Catalog)
		logger := env.Log.Logger

		w, err := env.Watch(ctx, catalog, nil)
		if err != nil {
			logger.Warn("tree file watching disabled", "error", err)
		} else {
			defer w.Stop()
		}

		addr := env.Config.Listen
		if cmd.Flags().Changed("listen") {
			addr = listenAddr
		}
		srv := &http.Server{
			Addr:              addr,
			Handler:           httpapi.NewServer(catalog, logger).Routes(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("listening", "addr", addr)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVarP(&listenAddr, "listen", "l", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}
