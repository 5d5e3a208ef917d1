// Package cli provides common initialization for the spendscope
// command: logging, .env loading, configuration and store setup.
package cli

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"spendscope/internal/config"
	"spendscope/internal/log"
	"spendscope/internal/storage"
)

// SetupLogger initializes structured logging at the given level and
// sets it as the process default.
func SetupLogger(level string) *log.Logger {
	logger := log.New(log.Config{
		Level:     parseLevel(level),
		Component: log.ComponentApp,
	})
	log.SetDefault(logger)
	return logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// OpenEntryStore opens the manual-entry store at the configured path.
// Returns the store or exits the process on failure.
func OpenEntryStore(logger *log.Logger, path string) *storage.EntryStore {
	store, err := storage.NewEntryStore(path)
	if err != nil {
		logger.WithComponent(log.ComponentStorage).Error("Failed to open manual entry store",
			log.FieldError, err, log.FieldPath, path)
		os.Exit(1)
	}
	return store
}
