package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hoster-project/portal-sync/internal/adapters/gateway"
	"github.com/hoster-project/portal-sync/internal/auth"
	"github.com/hoster-project/portal-sync/internal/config"
	"github.com/hoster-project/portal-sync/internal/infrastructure/logging"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Structured Logger
	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stdout,
		ServiceName: "pushgw",
		Environment: cfg.App.Environment,
	})

	logger.Info("starting push gateway",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	// 3. Initialize Security & Real-time Components
	tokenManager := auth.NewTokenManager(cfg.JWT.Secret)

	hubCtx, cancelHub := context.WithCancel(context.Background())
	defer cancelHub()

	hub := gateway.NewHub(logger)
	go hub.Run(hubCtx)

	// 4. Assemble the HTTP surface
	handler := gateway.NewHandler(hub, tokenManager, gateway.HandlerConfig{
		AllowedOrigins: cfg.Gateway.AllowedOrigins,
		Development:    cfg.IsDevelopment(),
	}, logger)

	router := gateway.NewRouter(handler, gateway.RouterConfig{
		AllowedOrigins: cfg.Gateway.AllowedOrigins,
		RateLimitRPS:   cfg.Gateway.RateLimitRPS,
		RateLimitBurst: cfg.Gateway.RateLimitBurst,
	}, logger)

	// 5. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         cfg.Gateway.Port,
		Handler:      router,
		ReadTimeout:  cfg.Gateway.ReadTimeout,
		WriteTimeout: cfg.Gateway.WriteTimeout,
		IdleTimeout:  cfg.Gateway.IdleTimeout,
	}

	go func() {
		logger.Info("gateway listening", "port", cfg.Gateway.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Gateway.ShutdownTimeout)
	defer cancel()

	// Stop the hub so connected clients get a close frame.
	cancelHub()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("gateway shutdown complete")
}
