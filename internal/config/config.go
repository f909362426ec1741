// Package config resolves the client's runtime settings. Precedence is
// explicit programmatic option > environment variable > config file >
// built-in default; this package covers the last three, the option layer
// lives with the client itself.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Snapshot is one fully-resolved, read-only configuration. Concurrent
// client instances may hold different snapshots without interference.
type Snapshot struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxRetries  int           `mapstructure:"max_retries"`
	WorkerCount int           `mapstructure:"worker_count"`
	RateLimit   float64       `mapstructure:"rate_limit"`
	RateBurst   int           `mapstructure:"rate_burst"`
	CacheSize   int           `mapstructure:"cache_size"`
	LogLevel    string        `mapstructure:"log_level"`
	LogFormat   string        `mapstructure:"log_format"`
}

// Load reads configuration from defaults, environment variables prefixed
// ENTSOE_, and an optional YAML file. An empty path skips the file layer.
func Load(path string) (*Snapshot, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("ENTSOE")
	v.AutomaticEnv()

	// The platform's own documentation calls the token variable ENTSOE_API;
	// accept it alongside the prefixed form.
	if err := v.BindEnv("api_key", "ENTSOE_API_KEY", "ENTSOE_API"); err != nil {
		return nil, fmt.Errorf("failed to bind api key env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var snap Snapshot
	if err := v.Unmarshal(&snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &snap, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("base_url", "https://web-api.tp.entsoe.eu/api")
	v.SetDefault("timeout", "30s")
	v.SetDefault("max_retries", 4)
	v.SetDefault("worker_count", 4)

	// The platform enforces 400 requests per minute per token; the default
	// limiter stays safely below that.
	v.SetDefault("rate_limit", 6.0)
	v.SetDefault("rate_burst", 10)

	v.SetDefault("cache_size", 128)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
}
