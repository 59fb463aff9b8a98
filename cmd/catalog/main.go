package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"courseledger/app"
	"courseledger/config"
	"courseledger/logging"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(config.CatalogServiceName, "8081")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.ServiceName)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := app.NewCatalog(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to start", zap.Error(err))
	}
	if err := svc.Run(ctx); err != nil {
		logger.Fatal("failed to serve", zap.Error(err))
	}
}
