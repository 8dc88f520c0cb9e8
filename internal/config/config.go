// Package config reads the application configuration from the
// environment, with an optional .env file loaded first.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"audival/domain/rem"
	"audival/internal/logging"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Paths    PathConfig
	Analysis AnalysisConfig
	LogLevel logging.Level
}

// DatabaseConfig holds the archive connection settings. An empty URL
// means no archive: the pipelines run without recording runs.
type DatabaseConfig struct {
	URL     string
	SSLMode string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// PathConfig holds the data file locations for each pipeline
type PathConfig struct {
	DAMDir      string
	REMFile     string
	TargetsFile string
	SINFile     string
	OutDir      string
}

// AnalysisConfig holds the real-ear criteria thresholds
type AnalysisConfig struct {
	Params rem.AnalysisParams
}

// Enabled reports whether an archive database was configured.
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// Load reads configuration from a .env file (when present) and the
// environment. Unlike the database and server settings, analysis
// thresholds have study-defined defaults and rarely change.
func Load() (*Config, error) {
	// Missing .env is fine, the environment alone may be complete
	_ = godotenv.Load()

	params := rem.DefaultAnalysisParams()
	params.LowCeiling = getEnvFloatOrDefault("REM_LOW_CEILING", params.LowCeiling)
	params.HighCeiling = getEnvFloatOrDefault("REM_HIGH_CEILING", params.HighCeiling)

	return &Config{
		Database: DatabaseConfig{
			URL:     os.Getenv("DATABASE_URL"),
			SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Paths: PathConfig{
			DAMDir:      getEnvOrDefault("DAM_DIR", "./data/dam"),
			REMFile:     getEnvOrDefault("REM_FILE", ""),
			TargetsFile: getEnvOrDefault("TARGETS_FILE", ""),
			SINFile:     getEnvOrDefault("SIN_FILE", ""),
			OutDir:      getEnvOrDefault("OUT_DIR", "./out"),
		},
		Analysis: AnalysisConfig{Params: params},
		LogLevel: logging.ParseLevel(os.Getenv("LOG_LEVEL")),
	}, nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
