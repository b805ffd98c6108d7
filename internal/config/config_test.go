package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.DatasetPath)
	assert.True(t, cfg.Feed.Enabled)
	assert.NotEmpty(t, cfg.Feed.URL)
	assert.Equal(t, 15*time.Second, cfg.Feed.Timeout)
	assert.Equal(t, "crime", cfg.Scoring.Category)
	assert.InDelta(t, 30.0, cfg.Scoring.ThresholdPct, 1e-9)
	assert.Equal(t, 5, cfg.Scoring.MinCalls)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("CALL_ANALYTICS_HTTP_ADDR", ":9090")
	t.Setenv("CALL_ANALYTICS_LOG_LEVEL", "debug")
	t.Setenv("CALL_ANALYTICS_LOG_FORMAT", "text")
	t.Setenv("CALL_ANALYTICS_SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("CALL_ANALYTICS_DATASET_PATH", "/data/calls.csv")
	t.Setenv("CALL_ANALYTICS_FEED_URL", "https://example.com/festivals.ics")
	t.Setenv("CALL_ANALYTICS_FEED_TIMEOUT", "5s")
	t.Setenv("CALL_ANALYTICS_SCORING_CATEGORY", "medical")
	t.Setenv("CALL_ANALYTICS_SCORING_THRESHOLD_PCT", "40")
	t.Setenv("CALL_ANALYTICS_SCORING_MIN_CALLS", "10")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "/data/calls.csv", cfg.DatasetPath)
	assert.Equal(t, "https://example.com/festivals.ics", cfg.Feed.URL)
	assert.Equal(t, 5*time.Second, cfg.Feed.Timeout)
	assert.Equal(t, "medical", cfg.Scoring.Category)
	assert.InDelta(t, 40.0, cfg.Scoring.ThresholdPct, 1e-9)
	assert.Equal(t, 10, cfg.Scoring.MinCalls)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	t.Run("empty http addr", func(t *testing.T) {
		cfg := valid()
		cfg.HTTPAddr = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("feed enabled without url", func(t *testing.T) {
		cfg := valid()
		cfg.Feed.URL = ""
		assert.Error(t, cfg.Validate())

		cfg.Feed.Enabled = false
		assert.NoError(t, cfg.Validate())
	})

	t.Run("non-positive timeouts", func(t *testing.T) {
		cfg := valid()
		cfg.ShutdownTimeout = 0
		assert.Error(t, cfg.Validate())

		cfg = valid()
		cfg.Feed.Timeout = -time.Second
		assert.Error(t, cfg.Validate())
	})

	t.Run("negative min calls", func(t *testing.T) {
		cfg := valid()
		cfg.Scoring.MinCalls = -1
		assert.Error(t, cfg.Validate())
	})
}
