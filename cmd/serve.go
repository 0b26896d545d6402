package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/flowerview/flowerview/internal/handlers"
	"github.com/flowerview/flowerview/internal/storage"
)

func newServeCmd(configFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start web server for the prediction viewer",
		Long: `Starts the Flowerview web interface on the specified port.

The web interface lets you submit a flower image by file upload or URL, shows
the ranked predictions returned by the classification service and opens the
full record of a class when its row is clicked.`,
		Example: `  # Start server on default port 8888
  flowerview serve

  # Start server on custom port against a remote classifier
  flowerview serve --port 3000 --backend http://classifier:8000

  # Serve class records from a local catalog
  flowerview serve --info-provider catalog --catalog ./flowers.parquet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, *configFile)
			if err != nil {
				return err
			}

			store := storage.New(a.newMachine, a.cfg.Server.SessionTTL)
			handler := handlers.New(store, a.renderer, a.cfg.Server.MaxUploadBytes)

			addr := ":" + a.cfg.Server.Port
			server := &http.Server{
				Addr:    addr,
				Handler: handlers.LogRequests(handler.Routes()),
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			go evictSessions(ctx, store, a.cfg.Server.SessionTTL)

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Flowerview interface available", "addr", addr, "url", "http://localhost"+addr, "backend", a.cfg.Backend.URL)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringP("port", "p", "8888", "Port to listen on")

	return cmd
}

// evictSessions drops idle sessions until ctx is done.
func evictSessions(ctx context.Context, store *storage.SessionStore, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	ticker := time.NewTicker(evictInterval(ttl))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := store.Evict(); n > 0 {
				slog.Info("Evicted idle sessions", "count", n, "remaining", store.Len())
			}
		}
	}
}

// evictInterval is half the TTL, but never under a second.
func evictInterval(ttl time.Duration) time.Duration {
	return max(ttl/2, time.Second)
}
