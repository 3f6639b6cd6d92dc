package config

import (
	"os"
	"strconv"
	"time"

	// Load environment variables from .env files when present.
	_ "github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Executor ExecutorConfig
	Import   ImportConfig
}

// ExecutorConfig configures the external import executor client.
type ExecutorConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// ImportConfig holds pipeline defaults.
type ImportConfig struct {
	DefaultCurrency string
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		Executor: ExecutorConfig{
			BaseURL: getEnv("IMPORT_EXECUTOR_URL", "http://localhost:8080"),
			Token:   getEnv("IMPORT_EXECUTOR_TOKEN", ""),
			Timeout: time.Duration(getEnvAsInt("IMPORT_EXECUTOR_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Import: ImportConfig{
			DefaultCurrency: getEnv("IMPORT_DEFAULT_CURRENCY", "USD"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
