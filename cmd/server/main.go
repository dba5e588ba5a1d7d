package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/giftshelf/backend/config"
	httpDelivery "github.com/giftshelf/backend/internal/delivery/http"
	"github.com/giftshelf/backend/internal/domain"
	"github.com/giftshelf/backend/internal/infrastructure/cache"
	"github.com/giftshelf/backend/internal/infrastructure/catalog"
	"github.com/giftshelf/backend/internal/infrastructure/session"
	"github.com/giftshelf/backend/internal/logging"
	"github.com/giftshelf/backend/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := logging.NewLogger(logging.ParseLevel(cfg.Log.Level), cfg.Log.Format)
	slog.SetDefault(logger)

	logger.Info("starting Giftshelf backend",
		"version", "1.0.0",
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
		"cache", cfg.Cache.Type,
		"mode", cfg.Catalog.Mode,
		"vocabulary", cfg.Catalog.VocabularyMode,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize infrastructure dependencies
	store, closeStore, err := newCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	catalogClient := catalog.NewClient(cfg.Catalog.APIKey, cfg.Catalog.BaseURL, logger)
	catalogClient.SetTimeout(cfg.Catalog.Timeout)
	catalogClient.SetRateLimit(cfg.Catalog.RateLimit, cfg.Catalog.RateBurst)

	// Enable debug mode in development environment
	if cfg.Catalog.Debug || cfg.Server.Environment == "development" {
		catalogClient.SetDebug(true)
		logger.Debug("catalog client debug mode enabled")
	}

	// Initialize usecase layer
	catalogService, err := usecase.NewCatalogService(catalogClient, store, usecase.CatalogServiceConfig{
		Mode:           cfg.Catalog.Mode,
		VocabularyMode: cfg.Catalog.VocabularyMode,
		SnapshotTTL:    cfg.Cache.TTL,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to create catalog service: %w", err)
	}

	sessions := session.NewStore(store, cfg.Session.TTL)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(catalogService, sessions, logger)
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newCache builds the configured cache backend and its close func
func newCache(ctx context.Context, cfg *config.Config) (domain.CacheRepository, func(), error) {
	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL, "giftshelf:")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return redisCache, func() { redisCache.Close() }, nil
	default:
		memoryCache := cache.NewMemoryCache()
		return memoryCache, func() { memoryCache.Close() }, nil
	}
}
