package config

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	// Database
	DBPath string

	// Reporting
	BaseCurrency string
}

func Load() *Config {
	return &Config{
		DBPath:       getEnv("NWTRACK_DB_PATH", "./data/nwtrack.db"),
		BaseCurrency: getEnv("NWTRACK_BASE_CURRENCY", "USD"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if c.DBPath == "" {
		errors = append(errors, "database path cannot be empty")
	}

	if len(c.BaseCurrency) != 3 || c.BaseCurrency != strings.ToUpper(c.BaseCurrency) {
		errors = append(errors, fmt.Sprintf("invalid base currency '%s': must be a 3-letter code like USD", c.BaseCurrency))
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
