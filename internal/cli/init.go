// Package cli provides common initialization utilities for the nwtrack
// command-line entry point.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"nwtrack/internal/config"
	"nwtrack/internal/services"
	"nwtrack/internal/storage"
)

// SetupLogger initializes structured logging with default settings.
// Returns the configured logger and sets it as the default logger.
func SetupLogger() *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *slog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// InitTracker opens the SQLite repository (applying migrations) and wraps it
// in the tracker service. Exits the process on failure.
func InitTracker(logger *slog.Logger, cfg *config.Config) *services.Tracker {
	repo, err := storage.NewSQLiteRepository(cfg.DBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.DBPath)
		os.Exit(1)
	}
	return services.NewTracker(repo, cfg.BaseCurrency)
}
