package config

import (
	"os"
	"strconv"

	"ledgerscope/internal/errors"
	"ledgerscope/internal/xlsx"
)

// Config represents the complete application configuration. Flags layered on
// top by the CLI override anything read from the environment.
type Config struct {
	Data     DataConfig
	Output   OutputConfig
	Database DatabaseConfig
	Server   ServerConfig
}

// DataConfig selects what to decode and analyze.
type DataConfig struct {
	File      string // container path
	SheetPath string // worksheet stream inside the container
	Column    string // explicit target column; empty = auto-select
	MinCount  int    // minimum numeric sample size for auto-selection
}

// OutputConfig holds artifact destination settings.
type OutputConfig struct {
	Dir string
}

// DatabaseConfig holds the optional run-ledger connection.
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds HTTP server settings for serve mode.
type ServerConfig struct {
	Port string
}

// Load reads configuration from environment variables, applying defaults for
// everything optional.
func Load() (*Config, error) {
	cfg := &Config{
		Data: DataConfig{
			File:      os.Getenv("DATA_FILE"),
			SheetPath: getEnv("SHEET_XML", xlsx.DefaultSheetPath),
			Column:    os.Getenv("TARGET_COLUMN"),
			MinCount:  10,
		},
		Output: OutputConfig{
			Dir: getEnv("OUTPUT_DIR", "outputs"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
	}

	if raw := os.Getenv("MIN_COUNT"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.ConfigInvalid("MIN_COUNT must be an integer")
		}
		cfg.Data.MinCount = n
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the invariants flags cannot repair.
func (c *Config) Validate() error {
	if c.Data.MinCount <= 0 {
		return errors.ConfigInvalid("minimum sample count must be positive")
	}
	if c.Data.SheetPath == "" {
		return errors.ConfigInvalid("worksheet stream path must not be empty")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
