package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/smarttask/smarttask-go/internal/backend"
	"github.com/smarttask/smarttask-go/internal/classifier"
	"github.com/smarttask/smarttask-go/internal/config"
	"github.com/smarttask/smarttask-go/internal/crypto"
	"github.com/smarttask/smarttask-go/internal/handler"
	"github.com/smarttask/smarttask-go/internal/model"
	"github.com/smarttask/smarttask-go/internal/repository"
	"github.com/smarttask/smarttask-go/internal/router"
	"github.com/smarttask/smarttask-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()
	slog.SetDefault(newLogger(cfg))

	ctx := context.Background()

	store, err := repository.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		slog.Error("open store", "driver", cfg.DatabaseDriver, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	userRepo := repository.NewUserRepository(store)
	todoRepo := repository.NewTodoRepository(store)

	hasher := crypto.NewPasswordHasher(crypto.DefaultHashParams())
	authService := service.NewAuthService(userRepo, hasher, cfg.JWTSecret, cfg.JWTExpiry)
	if cfg.SeedDemo {
		if err := authService.SeedDefaultAccount(ctx); err != nil {
			slog.Error("seed demo account", "error", err)
			os.Exit(1)
		}
	}

	gemini := classifier.New(classifier.Config{
		APIKey:     cfg.GeminiAPIKey,
		Model:      cfg.GeminiModel,
		Endpoint:   cfg.GeminiEndpoint,
		Timeout:    cfg.ClassifyTimeout,
		MaxRetries: cfg.ClassifyMaxRetries,
		RPS:        cfg.ClassifyRPS,
	})
	if cfg.GeminiAPIKey == "" {
		slog.Warn("GEMINI_API_KEY not set, classifying backend will report unavailable")
	}

	selector, err := backend.NewSelector(cfg.TaskBackend, func(b model.Backend) (service.TaskService, error) {
		return service.NewTaskService(b, todoRepo, gemini)
	})
	if err != nil {
		slog.Error("build task services", "error", err)
		os.Exit(1)
	}

	r := router.New(router.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Tasks:   handler.NewTaskHandler(selector),
		Backend: handler.NewBackendHandler(selector),
	}, cfg.JWTSecret, router.AuthRateLimit{RPS: cfg.AuthRPS, Burst: cfg.AuthBurst})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "backend", selector.Active())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

func newLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
