package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	os.Exit(run())
}

// run wires the advisor and serves until SIGINT/SIGTERM. Exit code 1 means
// wiring failed (bad config, unreachable catalog); 2 means the server or
// job worker stopped with an error.
func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := initializeApp()
	if err != nil {
		slog.Error("failed to wire glow-advisor", "error", err)
		return 1
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("glow-advisor stopped with error", "error", err)
		return 2
	}
	return 0
}
