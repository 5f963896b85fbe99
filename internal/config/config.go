// Package config loads turnity settings from the environment and an
// optional .env file.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings.
type Config struct {
	APIURL     string
	APITimeout time.Duration
	DBPath     string
	LogLevel   string
	LogFile    string
	LogCalls   bool
}

// DefaultConfig returns a Config with defaults rooted at home.
func DefaultConfig(home string) Config {
	return Config{
		APIURL:     "http://localhost:3000/turnity",
		APITimeout: 15 * time.Second,
		DBPath:     filepath.Join(home, ".turnity", "turnity.db"),
		LogLevel:   "info",
		LogFile:    filepath.Join(home, ".turnity", "turnity.log"),
		LogCalls:   true,
	}
}

// Load reads configuration from the environment, falling back to defaults
// for any unset or invalid value. envFiles are loaded first when present;
// variables already set in the environment win over file values.
func Load(envFiles ...string) Config {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			_ = godotenv.Load(f)
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	cfg := DefaultConfig(home)

	if v := os.Getenv("TURNITY_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("TURNITY_API_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.APITimeout = time.Duration(n) * time.Millisecond
		}
	}
	if v := os.Getenv("TURNITY_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("TURNITY_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v, ok := os.LookupEnv("TURNITY_LOG_FILE"); ok {
		cfg.LogFile = v
	}
	if v := os.Getenv("TURNITY_LOG_CALLS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.LogCalls = b
		}
	}
	return cfg
}
