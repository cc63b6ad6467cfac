package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/krjofficial/mern-ecomm/internal/app/apiapp"
	"github.com/krjofficial/mern-ecomm/internal/config"
	"github.com/krjofficial/mern-ecomm/internal/infra/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "api:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Env)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := apiapp.New(ctx, cfg, log)
	if err != nil {
		log.Error("api app init failed", zap.Error(err))
		return err
	}

	if err := app.Serve(ctx); err != nil {
		log.Error("api app stopped with error", zap.Error(err))
		return err
	}
	log.Info("api app stopped")
	return nil
}
