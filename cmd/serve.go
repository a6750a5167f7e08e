package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/greenbin-app/greenbin/internal/classifier"
	"github.com/greenbin-app/greenbin/internal/config"
	"github.com/greenbin-app/greenbin/internal/contact"
	"github.com/greenbin-app/greenbin/internal/earth911"
	"github.com/greenbin-app/greenbin/internal/feedback"
	"github.com/greenbin-app/greenbin/internal/guide"
	"github.com/greenbin-app/greenbin/internal/handlers"
	"github.com/greenbin-app/greenbin/internal/narrative"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Green Bin web interface",
		Long: `Starts the Green Bin web interface on the specified port.

Upload a photo of a waste item to classify it, read AI-generated
disposal guidance, and search for nearby drop-off recycling locations
by ZIP code.`,
		Example: `  # Start server on the default port
  greenbin serve

  # Start server on a custom port
  greenbin serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.HTTPPort = ":" + port
			}

			backend, err := classifier.NewONNXBackend(cfg.ModelPath, cfg.ORTLibraryPath)
			if err != nil {
				return err
			}
			defer backend.Close()

			g, err := guide.Load()
			if err != nil {
				return err
			}

			var images handlers.ImageStore
			if cfg.S3Bucket != "" {
				store, err := feedback.NewStore(cmd.Context(), cfg.S3Bucket, cfg.S3Region, cfg.S3Prefix)
				if err != nil {
					return err
				}
				images = store
			} else {
				slog.Warn("No S3_BUCKET configured; feedback image submission is disabled")
			}

			handler := handlers.New(
				classifier.New(backend),
				narrative.NewGenerator(cfg.GeminiAPIKey, cfg.GeminiModel),
				earth911.NewClient(cfg.Earth911BaseURL, cfg.Earth911APIKey),
				images,
				contact.NewRelay(cfg.WebhookURL),
				g,
				cfg.StaticDir,
			)

			// Set up routes
			mux := http.NewServeMux()
			mux.HandleFunc("/api/classify", handler.HandleClassify)
			mux.HandleFunc("/api/locations", handler.HandleLocations)
			mux.HandleFunc("/api/contact", handler.HandleContact)
			mux.HandleFunc("/api/guide", handler.HandleGuide)
			mux.HandleFunc("/api/sessions", handler.HandleSessions)
			mux.HandleFunc("/api/sessions/", handler.HandleSessionDetail)
			mux.HandleFunc("/", handler.HandleStatic)
			mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte("OK")); err != nil {
					slog.Error("Unable to write healthcheck", "err", err)
				}
			})

			server := &http.Server{
				Addr:    cfg.HTTPPort,
				Handler: mux,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Green Bin interface available", "addr", cfg.HTTPPort, "url", "http://localhost"+cfg.HTTPPort)
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

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides PORT)")

	return cmd
}
