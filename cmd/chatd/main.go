package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	chatdroot "github.com/set-night/chatd"
	"github.com/set-night/chatd/internal/ai"
	"github.com/set-night/chatd/internal/config"
	"github.com/set-night/chatd/internal/handler"
	"github.com/set-night/chatd/internal/repository"
	"github.com/set-night/chatd/internal/service"
	"github.com/set-night/chatd/internal/store/postgres"
	"github.com/set-night/chatd/internal/telegram"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Run migrations
	migrationsFS, err := fs.Sub(chatdroot.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize stores and services
	conversations := postgres.NewConversationStore(pool)
	messages := postgres.NewMessageStore(pool)
	responder := ai.NewClient(cfg.AIAPIKey, cfg.AIBaseURL)

	alerts, err := telegram.NewAlertLogger(cfg)
	if err != nil {
		slog.Error("failed to create alert logger", "error", err)
		os.Exit(1)
	}

	var alerter service.Alerter
	if alerts != nil {
		alerter = alerts
	}

	chat := service.NewChatService(conversations, messages, responder, cfg, alerter)

	// Build router
	gin.SetMode(gin.ReleaseMode)
	h := handler.New(handler.Deps{
		Chat:      chat,
		Responder: responder,
		Cfg:       cfg,
	})
	r := handler.NewRouter(cfg, h)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		slog.Info("starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	slog.Info("server stopped gracefully")
}
