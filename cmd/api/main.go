package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"paycode/internal/infrastructure"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := infrastructure.Bootstrap(ctx)
	if err != nil {
		slog.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	slog.Info("paycode engine starting")

	if err := app.Run(ctx); err != nil {
		slog.Error("engine stopped with error", "error", err)
		os.Exit(1)
	}

	slog.Info("engine exited cleanly")
}
