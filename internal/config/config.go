// Package config loads process configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr string
	StagingDir string
	LogLevel   string
}

// Load reads a .env file if present, then the environment. Every setting
// has a working default so the binary runs with no configuration at all.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ListenAddr: getEnv("LISTEN_ADDR", ":8080"),
		StagingDir: getEnv("STAGING_DIR", filepath.Join(os.TempDir(), "statement-importer")),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
