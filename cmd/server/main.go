package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/p-n-ai/pai-tube/internal/app"
	"github.com/p-n-ai/pai-tube/internal/backend"
	"github.com/p-n-ai/pai-tube/internal/export"
	"github.com/p-n-ai/pai-tube/internal/platform/config"
	"github.com/p-n-ai/pai-tube/internal/platform/logging"
	"github.com/p-n-ai/pai-tube/internal/store"
	"github.com/p-n-ai/pai-tube/internal/ui/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	// Graceful shutdown on SIGTERM/SIGINT.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	handler, cleanup, err := newHandler(ctx, cfg, logger)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // websocket connections are long-lived
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "backend", cfg.Backend.URL, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

// newHandler wires the store, backend client and exporter into the web
// adapter. The cleanup function releases store connections.
func newHandler(ctx context.Context, cfg *config.Config, logger *slog.Logger) (http.Handler, func(), error) {
	urls, closeStore, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, func() {}, fmt.Errorf("open store: %w", err)
	}

	exporter, err := export.Open(ctx, cfg, logger)
	if err != nil {
		closeStore()
		return nil, func() {}, fmt.Errorf("open exporter: %w", err)
	}

	client := backend.NewClient(
		backend.WithBaseURL(cfg.Backend.URL),
		backend.WithLogger(logger),
	)

	sessions := web.NewSessions(func(clientID string, opts ...app.Option) *app.Controller {
		base := []app.Option{
			app.WithStore(store.Scoped(urls, clientID)),
			app.WithExporter(exporter),
			app.WithLogger(logger),
			app.WithLanguage(cfg.UI.Language),
		}
		if events, ok := urls.(store.EventLogger); ok {
			base = append(base, app.WithEvents(events))
		}
		return app.New(client, append(base, opts...)...)
	})

	srv := web.New(web.Config{
		Sessions:       sessions,
		Logger:         logger,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Language:       cfg.UI.Language,
		BaseContext:    ctx,
		SessionIdle:    cfg.Server.SessionIdle,
	})
	return srv.Routes(), closeStore, nil
}
