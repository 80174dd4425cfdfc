// ABOUTME: Configuration loader for the arena CLI
// ABOUTME: Loads settings from environment variables with defaults

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// API
	APIBaseURL     string        // base URL of the tournament service
	RequestTimeout time.Duration // per-request timeout (default 30s)

	// Cache staleness windows, per key class. Classes not listed here
	// fall back to DefaultTTL.
	DefaultTTL time.Duration // default 5m
	NewsTTL    time.Duration // default 2m, news listings churn faster

	// Credential storage
	CredentialsPath string // JSON file holding the bearer token
}

const (
	defaultAPIBaseURL     = "http://localhost:8080"
	defaultRequestTimeout = 30 * time.Second
	defaultTTL            = 5 * time.Minute
	defaultNewsTTL        = 2 * time.Minute
)

// Load reads configuration from the environment with defaults.
// A .env file in the working directory is loaded first if present.
func Load() (*Config, error) {
	// Ignore missing .env; environment variables still apply
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL:     getEnv("ARENA_API_URL", defaultAPIBaseURL),
		RequestTimeout: defaultRequestTimeout,
		DefaultTTL:     defaultTTL,
		NewsTTL:        defaultNewsTTL,
	}

	if v := os.Getenv("ARENA_REQUEST_TIMEOUT_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("invalid ARENA_REQUEST_TIMEOUT_SECONDS: %q", v)
		}
		cfg.RequestTimeout = time.Duration(secs) * time.Second
	}

	if v := os.Getenv("ARENA_CACHE_TTL_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("invalid ARENA_CACHE_TTL_SECONDS: %q", v)
		}
		cfg.DefaultTTL = time.Duration(secs) * time.Second
	}

	if v := os.Getenv("ARENA_NEWS_TTL_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("invalid ARENA_NEWS_TTL_SECONDS: %q", v)
		}
		cfg.NewsTTL = time.Duration(secs) * time.Second
	}

	if v := os.Getenv("ARENA_CREDENTIALS_FILE"); v != "" {
		cfg.CredentialsPath = v
	} else {
		cfg.CredentialsPath = filepath.Join(DefaultConfigDir(), "credentials.json")
	}

	return cfg, nil
}

// DefaultConfigDir returns the default config directory following XDG spec
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "arena")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "arena")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
