package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type Config struct {
	// Data files
	DataDir      string
	EntriesFile  string
	SettingsFile string

	// Report output
	ReportsDir string

	// Unusual-spending detection
	OutlierMultiplier decimal.Decimal
	OutlierMinAmount  decimal.Decimal
	OutlierMinSamples int

	// Logging
	LogLevel string
}

func Load() *Config {
	dataDir := getEnv("DATA_DIR", "./data")

	cfg := &Config{
		DataDir:      dataDir,
		EntriesFile:  getEnv("ENTRIES_FILE", filepath.Join(dataDir, "manual_entries.json")),
		SettingsFile: getEnv("SETTINGS_FILE", filepath.Join(dataDir, "settings.json")),

		ReportsDir: getEnv("REPORTS_DIR", "./reports"),

		OutlierMultiplier: getEnvDecimal("OUTLIER_MULTIPLIER", decimal.NewFromFloat(2.5)),
		OutlierMinAmount:  getEnvDecimal("OUTLIER_MIN_AMOUNT", decimal.NewFromInt(50)),
		OutlierMinSamples: getEnvInt("OUTLIER_MIN_SAMPLES", 3),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid.
// Detector parameters are checked here because the analysis core accepts
// them as-is.
func (c *Config) Validate() error {
	var errors []string

	if c.DataDir == "" {
		errors = append(errors, "data directory cannot be empty")
	}
	if c.EntriesFile == "" {
		errors = append(errors, "manual entries file path cannot be empty")
	}
	if c.SettingsFile == "" {
		errors = append(errors, "settings file path cannot be empty")
	}
	if c.ReportsDir == "" {
		errors = append(errors, "reports directory cannot be empty")
	}

	if c.OutlierMultiplier.Sign() <= 0 {
		errors = append(errors, fmt.Sprintf("invalid outlier multiplier %s: must be greater than zero", c.OutlierMultiplier))
	}
	if c.OutlierMinAmount.Sign() < 0 {
		errors = append(errors, fmt.Sprintf("invalid outlier minimum amount %s: must not be negative", c.OutlierMinAmount))
	}
	if c.OutlierMinSamples < 1 {
		errors = append(errors, fmt.Sprintf("invalid outlier minimum samples %d: must be at least 1", c.OutlierMinSamples))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	return defaultValue
}
