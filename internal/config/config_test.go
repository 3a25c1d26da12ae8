package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads all config from env", func(t *testing.T) {
		t.Setenv("BACKEND_API_URL", "http://localhost:5000")
		t.Setenv("LISTEN_ADDR", ":8080")
		t.Setenv("LOG_LEVEL", "debug")

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, "http://localhost:5000", cfg.BackendBaseURL)
		require.Equal(t, ":8080", cfg.ListenAddr)
		require.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("applies defaults", func(t *testing.T) {
		t.Setenv("BACKEND_API_URL", "http://backend:5000")
		t.Setenv("LISTEN_ADDR", "")
		t.Setenv("HTTP_TIMEOUT_SECONDS", "")
		t.Setenv("CHART_TOP_N", "")
		t.Setenv("VIEW_URL_TTL_MINUTES", "")

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, ":3000", cfg.ListenAddr)
		require.Equal(t, 30*time.Second, cfg.HTTPTimeout)
		require.Equal(t, 5, cfg.ChartTopN)
		require.Equal(t, 10*time.Minute, cfg.ViewURLTTL)
	})

	t.Run("trims trailing slash from backend URL", func(t *testing.T) {
		t.Setenv("BACKEND_API_URL", "http://localhost:5000/")

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, "http://localhost:5000", cfg.BackendBaseURL)
	})

	t.Run("parses numeric overrides", func(t *testing.T) {
		t.Setenv("BACKEND_API_URL", "http://localhost:5000")
		t.Setenv("HTTP_TIMEOUT_SECONDS", "10")
		t.Setenv("CHART_TOP_N", "8")
		t.Setenv("VIEW_URL_TTL_MINUTES", "3")

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, 10*time.Second, cfg.HTTPTimeout)
		require.Equal(t, 8, cfg.ChartTopN)
		require.Equal(t, 3*time.Minute, cfg.ViewURLTTL)
	})

	t.Run("ignores invalid numeric overrides", func(t *testing.T) {
		t.Setenv("BACKEND_API_URL", "http://localhost:5000")
		t.Setenv("HTTP_TIMEOUT_SECONDS", "not-a-number")
		t.Setenv("CHART_TOP_N", "-2")

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, 30*time.Second, cfg.HTTPTimeout)
		require.Equal(t, 5, cfg.ChartTopN)
	})

	t.Run("fails without backend URL", func(t *testing.T) {
		t.Setenv("BACKEND_API_URL", "")

		_, err := Load()
		require.Error(t, err)
		require.Contains(t, err.Error(), "BACKEND_API_URL is required")
	})

	t.Run("fails on relative backend URL", func(t *testing.T) {
		t.Setenv("BACKEND_API_URL", "localhost:5000/api")

		_, err := Load()
		require.Error(t, err)
		require.Contains(t, err.Error(), "absolute URL")
	})
}
