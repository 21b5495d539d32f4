package main

import (
	"context"
	"os"

	"tenantd/internal/config"
	"tenantd/internal/infra/backend"
	httpinfra "tenantd/internal/infra/http"
	"tenantd/internal/logger"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(logger.Config{Level: cfg.LogLevel, JSON: cfg.LogJSON})

	console, b, err := backend.NewConsole(context.Background(), cfg, log)
	if err != nil {
		log.Error("failed to init backend", "err", err)
		os.Exit(1)
	}
	defer b.Close()

	srv := httpinfra.NewServer(cfg, console, b.Limiter, log)
	if err := srv.Run(); err != nil {
		log.Error("server exited", "err", err)
		b.Close()
		os.Exit(1)
	}
}
