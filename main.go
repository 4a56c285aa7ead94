// File: /main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"foodshare-api/config"
	"foodshare-api/database"
	"foodshare-api/jobs"
	"foodshare-api/middleware"
	"foodshare-api/routes"
	"foodshare-api/services"
	"github.com/gin-gonic/gin"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Initialize database
	db, err := database.Connect(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Warn("failed to close database", "error", err)
		}
	}()

	opts := services.Options{
		FromName:  cfg.FromName,
		CacheSize: cfg.CacheSize,
		CacheTTL:  cfg.CacheTTL,
		Logger:    logger,
	}
	if cfg.EmailEnabled() {
		opts.Mailer = services.NewEmailService(cfg)
		logger.Info("notification emails enabled", "smtp_host", cfg.SMTPHost)
	}
	svc, err := services.New(services.NewStores(db), opts)
	if err != nil {
		return err
	}

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestLogger(logger),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.SecurityHeaders(),
		middleware.RateLimit(cfg.RateLimitPerMinute, cfg.RateLimitBurst),
		middleware.ValidateJSON(),
		middleware.ErrorHandler(logger),
	)
	routes.SetupRoutes(router, svc, cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cleanupJob := jobs.NewExpiredPostCleanupJob(svc.Posts, cfg.CleanupInterval, cfg.ExpiredPostGrace, logger)
	cleanupJob.Start(ctx)
	defer cleanupJob.Stop()

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting FoodShare API server", "port", cfg.Port, "driver", cfg.DBDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
