package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"heart-risk/internal/config"
	"heart-risk/internal/logs"

	"go.uber.org/zap"
)

func main() {
	// Root context, cancelled on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	// Logger
	ring := logs.NewRing(cfg.Log.Buffer)
	logger, err := logs.NewLogger(cfg.Log.Level, cfg.Log.Format, "heart-risk", ring)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(ctx, cfg, ring, logger); err != nil {
		logger.Error("server exited", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}
