// Command api is the ShiftPulse notification API server.
//
// Usage:
//
//	shiftpulse-api
//	API_PORT=8080 shiftpulse-api

// @title ShiftPulse Notification API
// @version 1.0.0
// @description Break and task notification API for the agent workforce application: notification center reads, read/clear actions, real-time stream, and break window inspection.
// @host localhost:8000
// @BasePath /api/v1
// @schemes http https
// @contact.name ShiftPulse
// @license.name MIT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/shiftpulse/shiftpulse/internal/alert"
	"github.com/shiftpulse/shiftpulse/internal/api"
	"github.com/shiftpulse/shiftpulse/internal/cache"
	"github.com/shiftpulse/shiftpulse/internal/config"
	"github.com/shiftpulse/shiftpulse/internal/db"
	"github.com/shiftpulse/shiftpulse/internal/listener"
	"github.com/shiftpulse/shiftpulse/internal/maintenance"
	"github.com/shiftpulse/shiftpulse/internal/realtime"

	_ "github.com/shiftpulse/shiftpulse/docs" // swagger docs
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.Error("Failed to resolve agent timezone", "error", err)
		os.Exit(1)
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Connect to database
	logger.Info("Connecting to database...")
	pool, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("Database connected",
		"min_conns", cfg.DBPoolMinConns,
		"max_conns", cfg.DBPoolMaxConns)

	// Initialize cache
	appCache := cache.New(cfg.CacheEnabled)
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

	// Realtime fan-out: LISTEN/NOTIFY consumer feeding the SSE hub
	hub := realtime.NewHub()
	go listener.Start(ctx, cfg.DatabaseURL, hub, logger)

	// Ops alerting (no-op without SLACK_TOKEN)
	alerts := alert.New(cfg.SlackToken, cfg.SlackChannel, logger)

	// Maintenance tickers (retention cleanup, missed-break digest)
	go maintenance.Start(ctx, pool.Pool, maintenance.DefaultConfig(), loc, alerts, logger)

	// Create router
	router := api.NewRouter(pool.Pool, appCache, cfg, hub, loc)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:        addr,
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		// No WriteTimeout: the SSE stream endpoint holds responses open.
		IdleTimeout: 60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting ShiftPulse Notification API",
			"addr", addr,
			"environment", cfg.Environment,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
