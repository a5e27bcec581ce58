package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/baseballgame-go/internal/api"
	"github.com/mcoot/baseballgame-go/internal/config"
	"github.com/mcoot/baseballgame-go/internal/factory"
	pgstorage "github.com/mcoot/baseballgame-go/internal/storage/postgres"
	redisstorage "github.com/mcoot/baseballgame-go/internal/storage/redis"
)

func main() {
	cfg, err := config.Load(os.Getenv("BASEBALL_CONFIG"))
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	// Build factory config from the loaded settings
	factoryCfg := factory.Config{
		Logger:             logger,
		StorageType:        cfg.Storage.Type,
		CSVDir:             cfg.Storage.CSVDir,
		MaxRooms:           cfg.Server.MaxRooms,
		EnforceTurnTimeout: cfg.Game.EnforceTurnTimeout,
		TokenTTL:           cfg.Auth.TokenTTL,
		TokenSeed:          cfg.Auth.TokenSeed(),
	}
	switch cfg.Storage.Type {
	case config.StorageRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.Storage.RedisURL
		factoryCfg.RedisConfig = &redisCfg
	case config.StoragePostgres:
		pgCfg := pgstorage.DefaultConfig()
		pgCfg.URL = cfg.Storage.PostgresURL
		factoryCfg.PostgresConfig = &pgCfg
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := factory.New(ctx, factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.Auth.TokenSecret == "" {
		logger.Warn("auth.token_secret not set, API tokens will not survive a restart")
	}

	serverConfig := api.DefaultServerConfig()
	serverConfig.Addr = cfg.Server.Addr
	server := api.NewServer(app.Handler(), serverConfig, logger)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.Storage.Type),
	)

	// Wait for shutdown or error
	exitCode := 0
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			exitCode = 1
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			exitCode = 1
		}
	}

	if err := app.Close(); err != nil {
		logger.Error("failed to close storage", slog.String("error", err.Error()))
		exitCode = 1
	}

	logger.Info("server stopped")
	os.Exit(exitCode)
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	level, _ := cfg.SlogLevel() // validated by config.Load
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
