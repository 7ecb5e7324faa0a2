package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/smarttask/smarttask-go/internal/classifier"
	"github.com/smarttask/smarttask-go/internal/model"
)

const defaultJWTSecret = "dev-secret-change-in-production"

type Config struct {
	Port string
	Env  string

	DatabaseDriver string
	DatabaseDSN    string

	JWTSecret string
	JWTExpiry time.Duration

	TaskBackend model.Backend

	GeminiAPIKey       string
	GeminiModel        string
	GeminiEndpoint     string
	ClassifyTimeout    time.Duration
	ClassifyMaxRetries uint64
	ClassifyRPS        float64

	AuthRPS   float64
	AuthBurst int

	LogLevel  slog.Level
	LogFormat string
	SeedDemo  bool
}

// Load reads the configuration from the environment. It exits the process
// when the result is unusable.
func Load() Config {
	cfg, err := parse()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	return cfg
}

func parse() (Config, error) {
	var errs []error

	backend, err := model.ParseBackend(getEnv("TASK_BACKEND", string(model.BackendLocal)))
	if err != nil {
		errs = append(errs, fmt.Errorf("TASK_BACKEND: %w", err))
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}

	cfg := Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		DatabaseDriver:     getEnv("DATABASE_DRIVER", "sqlite"),
		DatabaseDSN:        getEnv("DATABASE_DSN", "smarttask.db"),
		JWTSecret:          getEnv("JWT_SECRET", defaultJWTSecret),
		JWTExpiry:          getDuration("JWT_EXPIRY", 24*time.Hour, &errs),
		TaskBackend:        backend,
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		GeminiModel:        getEnv("GEMINI_MODEL", classifier.DefaultModel),
		GeminiEndpoint:     getEnv("GEMINI_ENDPOINT", classifier.DefaultEndpoint),
		ClassifyTimeout:    getDuration("CLASSIFY_TIMEOUT", 10*time.Second, &errs),
		ClassifyMaxRetries: uint64(getInt("CLASSIFY_MAX_RETRIES", 2, &errs)),
		ClassifyRPS:        getFloat("CLASSIFY_RPS", 5, &errs),
		AuthRPS:            getFloat("AUTH_RPS", 5, &errs),
		AuthBurst:          getInt("AUTH_BURST", 10, &errs),
		LogLevel:           level,
		LogFormat:          strings.ToLower(getEnv("LOG_FORMAT", "text")),
		SeedDemo:           getBool("SEED_DEMO", true, &errs),
	}

	if cfg.Env == "production" && cfg.JWTSecret == defaultJWTSecret {
		errs = append(errs, errors.New("JWT_SECRET must be set in production environment"))
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT: unsupported format %q", cfg.LogFormat))
	}
	if cfg.ClassifyTimeout <= 0 {
		errs = append(errs, errors.New("CLASSIFY_TIMEOUT must be positive"))
	}

	return cfg, errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return d
}

func getInt(key string, fallback int, errs *[]error) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		*errs = append(*errs, fmt.Errorf("%s: expected a non-negative integer, got %q", key, v))
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64, errs *[]error) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		*errs = append(*errs, fmt.Errorf("%s: expected a positive number, got %q", key, v))
		return fallback
	}
	return f
}

func getBool(key string, fallback bool, errs *[]error) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return b
}
