// Package config loads service settings from an optional config file and
// CALL_ANALYTICS_* environment variables, with sensible defaults for every key.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service settings.
type Config struct {
	HTTPAddr        string        `mapstructure:"http_addr"`
	LogLevel        string        `mapstructure:"log_level"`
	LogFormat       string        `mapstructure:"log_format"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// DatasetPath, when set, is loaded into the session at startup.
	DatasetPath string `mapstructure:"dataset_path"`

	Feed    FeedConfig    `mapstructure:"feed"`
	Scoring ScoringConfig `mapstructure:"scoring"`
}

// FeedConfig holds festival feed settings.
type FeedConfig struct {
	URL     string        `mapstructure:"url"`
	Enabled bool          `mapstructure:"enabled"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ScoringConfig holds the default significance scoring parameters; callers
// may override them per request.
type ScoringConfig struct {
	Category     string  `mapstructure:"category"`
	ThresholdPct float64 `mapstructure:"threshold_pct"`
	MinCalls     int     `mapstructure:"min_calls"`
}

// Load reads configuration from an optional file path plus environment
// variables, applying defaults where unset. An empty path skips the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("CALL_ANALYTICS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("shutdown_timeout", "10s")
	v.SetDefault("dataset_path", "")

	v.SetDefault("feed.url", "https://calendar.google.com/calendar/ical/en.indian%23holiday%40group.v.calendar.google.com/public/basic.ics")
	v.SetDefault("feed.enabled", true)
	v.SetDefault("feed.timeout", "15s")

	v.SetDefault("scoring.category", "crime")
	v.SetDefault("scoring.threshold_pct", 30.0)
	v.SetDefault("scoring.min_calls", 5)
}

// Validate checks that all configuration values are usable.
func (c *Config) Validate() error {
	if c.HTTPAddr == "" {
		return fmt.Errorf("http_addr is required")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive")
	}
	if c.Feed.Enabled && c.Feed.URL == "" {
		return fmt.Errorf("feed.url is required when the feed is enabled")
	}
	if c.Feed.Timeout <= 0 {
		return fmt.Errorf("feed.timeout must be positive")
	}
	if c.Scoring.Category == "" {
		return fmt.Errorf("scoring.category is required")
	}
	if c.Scoring.MinCalls < 0 {
		return fmt.Errorf("scoring.min_calls must not be negative")
	}
	return nil
}
