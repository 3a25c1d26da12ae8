// Package config provides application configuration loading from environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the console.
type Config struct {
	BackendBaseURL string
	ListenAddr     string
	LogLevel       string
	LogFormat      string
	HTTPTimeout    time.Duration
	ChartTopN      int
	ViewURLTTL     time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		BackendBaseURL: strings.TrimRight(strings.TrimSpace(os.Getenv("BACKEND_API_URL")), "/"),
		ListenAddr:     os.Getenv("LISTEN_ADDR"),
		LogLevel:       os.Getenv("LOG_LEVEL"),
		LogFormat:      os.Getenv("LOG_FORMAT"),
	}

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":3000"
	}

	cfg.HTTPTimeout = 30 * time.Second
	if secStr := os.Getenv("HTTP_TIMEOUT_SECONDS"); secStr != "" {
		if sec, err := strconv.Atoi(secStr); err == nil && sec > 0 {
			cfg.HTTPTimeout = time.Duration(sec) * time.Second
		}
	}

	cfg.ChartTopN = 5
	if nStr := os.Getenv("CHART_TOP_N"); nStr != "" {
		if n, err := strconv.Atoi(nStr); err == nil && n > 0 {
			cfg.ChartTopN = n
		}
	}

	// Signed view URLs expire backend-side; keep the cache window shorter
	// than the backend expiry so we never hand out a dead link.
	cfg.ViewURLTTL = 10 * time.Minute
	if minStr := os.Getenv("VIEW_URL_TTL_MINUTES"); minStr != "" {
		if m, err := strconv.Atoi(minStr); err == nil && m > 0 {
			cfg.ViewURLTTL = time.Duration(m) * time.Minute
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks that all required configuration is present.
func (c *Config) validate() error {
	var errs []string

	if c.BackendBaseURL == "" {
		errs = append(errs, "BACKEND_API_URL is required")
	} else if u, err := url.Parse(c.BackendBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, "BACKEND_API_URL must be an absolute URL, e.g. http://localhost:5000")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
