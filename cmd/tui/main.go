package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/p-n-ai/pai-tube/internal/app"
	"github.com/p-n-ai/pai-tube/internal/backend"
	"github.com/p-n-ai/pai-tube/internal/export"
	"github.com/p-n-ai/pai-tube/internal/platform/config"
	"github.com/p-n-ai/pai-tube/internal/platform/logging"
	"github.com/p-n-ai/pai-tube/internal/store"
	"github.com/p-n-ai/pai-tube/internal/ui/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// The terminal belongs to the UI, so logs go to a file.
	logPath := filepath.Join(os.TempDir(), "pai-tube.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	logger := logging.New(logFile, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	urls, closeStore, err := store.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer closeStore()

	exporter, err := export.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open exporter: %w", err)
	}

	client := backend.NewClient(
		backend.WithBaseURL(cfg.Backend.URL),
		backend.WithLogger(logger),
	)

	notify, changes := tui.Notifier()
	opts := []app.Option{
		app.WithStore(urls),
		app.WithExporter(exporter),
		app.WithClipboard(export.NewOSC52Clipboard(os.Stderr)),
		app.WithLogger(logger),
		app.WithLanguage(cfg.UI.Language),
		app.WithOnChange(notify),
	}
	if events, ok := urls.(store.EventLogger); ok {
		opts = append(opts, app.WithEvents(events))
	}
	ctrl := app.New(client, opts...)
	if err := ctrl.Restore(ctx); err != nil {
		logger.Warn("failed to restore last url", "error", err)
	}

	logger.Info("terminal ui starting", "backend", cfg.Backend.URL, "store", cfg.Store.Driver)
	return tui.Run(ctx, ctrl, changes, cfg.UI.NoColor)
}
