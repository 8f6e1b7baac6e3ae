package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/m4dpr0f/cjsr-sub004/internal/api"
	"github.com/m4dpr0f/cjsr-sub004/internal/factory"
	redisstorage "github.com/m4dpr0f/cjsr-sub004/internal/storage/redis"
)

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Build factory config from environment
	cfg := factory.Config{
		Logger:      logger,
		StorageType: os.Getenv("STORAGE_TYPE"),
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer app.Close()

	// Load the prompt pool, preferring the bundled file and falling back
	// to whatever a previous run persisted
	promptsPath := os.Getenv("PROMPTS_FILE")
	if promptsPath == "" {
		promptsPath = "data/prompts.txt"
	}
	if err := app.PromptService.LoadFromFile(context.Background(), promptsPath); err != nil {
		logger.Warn("could not load prompts from file", slog.String("path", promptsPath), slog.String("error", err.Error()))
		if err := app.PromptService.LoadFromStorage(context.Background()); err != nil {
			logger.Warn("no prompts available yet; load some via POST /api/v1/prompts", slog.String("error", err.Error()))
		}
	}

	// Create router
	router := api.NewRouter(api.RouterConfig{
		Logger:        logger,
		Registry:      app.Registry,
		HubManager:    app.HubManager,
		PromptService: app.PromptService,
		Storage:       app.Storage,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}
