package main

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"placeswipe/internal/app"
	"placeswipe/internal/clipboard"
	"placeswipe/internal/config"
	"placeswipe/internal/domain"
	"placeswipe/internal/location"
	"placeswipe/internal/places"
	"placeswipe/internal/storage"
	httpTransport "placeswipe/internal/transport/http"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set up logger
	var logger *slog.Logger
	logOpts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Logging.Level),
	}

	if cfg.Logging.Format == "json" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, logOpts))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, logOpts))
	}

	slog.SetDefault(logger)

	logger.Info("starting placeswipe",
		"env", cfg.Server.Env,
		"addr", cfg.GetAddr(),
		"storage", cfg.Storage.Backend,
		"location", cfg.Location.Provider,
	)

	ctx := context.Background()

	store, closeStore := newStore(cfg, logger)
	defer closeStore()

	session := app.NewSession(ctx, app.Deps{
		Store:   store,
		Locator: newLocator(cfg, logger),
		Places: places.NewClient(places.Options{
			Endpoint:   cfg.Places.Endpoint,
			MaxResults: cfg.Places.MaxResults,
			Timeout:    cfg.Places.Timeout,
		}, logger),
		Clipboard: newClipboard(cfg, logger),
		Shuffler:  rand.New(rand.NewSource(time.Now().UnixNano())),
		Logger:    logger,
	})
	defer session.Close()

	// Create HTTP server
	server := httpTransport.NewServer(cfg, session, logger)

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server stopped")
}

// newStore picks the settings store. An unreachable Redis degrades to no
// persistence rather than failing startup.
func newStore(cfg *config.Config, logger *slog.Logger) (app.Store, func()) {
	switch strings.ToLower(cfg.Storage.Backend) {
	case "redis":
		store, err := storage.DialRedis(cfg.Storage.RedisAddr, cfg.Storage.RedisDB, cfg.Storage.Prefix)
		if err != nil {
			logger.Warn("redis unavailable, settings will not be saved",
				"addr", cfg.Storage.RedisAddr,
				"error", err,
			)
			return storage.Nop{}, func() {}
		}
		logger.Info("connected to redis", "addr", cfg.Storage.RedisAddr, "db", cfg.Storage.RedisDB)
		return store, func() { store.Close() }
	case "none":
		return storage.Nop{}, func() {}
	default:
		return storage.NewMemory(), func() {}
	}
}

func newLocator(cfg *config.Config, logger *slog.Logger) app.Locator {
	switch strings.ToLower(cfg.Location.Provider) {
	case "fixed":
		coord := domain.NewCoordinate(cfg.Location.FixedLat, cfg.Location.FixedLng)
		if coord == nil {
			logger.Warn("fixed location is not a valid coordinate, location disabled")
			return location.Disabled{}
		}
		return location.Fixed{Coordinate: *coord}
	case "none":
		return location.Disabled{}
	default:
		return location.NewIPLocator(cfg.Location.Endpoint, cfg.Location.Timeout, nil, logger)
	}
}

func newClipboard(cfg *config.Config, logger *slog.Logger) app.Clipboard {
	if !cfg.Clipboard.Enabled {
		return clipboard.Discard{}
	}
	c, err := clipboard.NewSystem()
	if err != nil {
		logger.Info("system clipboard unavailable, likes will only be returned as text")
		return clipboard.Discard{}
	}
	return c
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
