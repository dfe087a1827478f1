// Package config provides application configuration loading and management.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or
// environment variables.
type Config struct {
	Env string `mapstructure:"APP_ENV"`

	// Storage backend: "file", "redis" or "sqlite".
	StorageBackend string `mapstructure:"STORAGE_BACKEND"`
	StoragePath    string `mapstructure:"STORAGE_PATH"`
	RedisURL       string `mapstructure:"REDIS_URL"`
	BlobKey        string `mapstructure:"BLOB_KEY"`
	SessionSecret  string `mapstructure:"SESSION_SECRET"`

	// Simulated network jitter upper bound, milliseconds.
	MaxLatencyMs int `mapstructure:"MAX_LATENCY_MS"`
	// Geo proximity threshold for nearby notifications, meters.
	ProximityMeters float64 `mapstructure:"PROXIMITY_METERS"`

	// Fixture sizes used when seeding an empty store.
	SeedUsers      int `mapstructure:"SEED_USERS"`
	SeedDumpsters  int `mapstructure:"SEED_DUMPSTERS"`
	SeedWastelands int `mapstructure:"SEED_WASTELANDS"`
	SeedEvents     int `mapstructure:"SEED_EVENTS"`

	TracingEnabled bool `mapstructure:"TRACING_ENABLED"`
}

// MaxLatency returns the configured jitter bound as a duration.
func (c *Config) MaxLatency() time.Duration {
	return time.Duration(c.MaxLatencyMs) * time.Millisecond
}

// LoadConfig loads application configuration from file and environment
// variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The config file is optional; defaults plus environment cover the
	// common case.
	_ = viper.ReadInConfig()

	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("STORAGE_BACKEND", "file")
	viper.SetDefault("STORAGE_PATH", "wastewatch.json")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("BLOB_KEY", "")
	viper.SetDefault("SESSION_SECRET", "dev-secret-change-me")
	viper.SetDefault("MAX_LATENCY_MS", 300)
	viper.SetDefault("PROXIMITY_METERS", 10000)
	viper.SetDefault("SEED_USERS", 30)
	viper.SetDefault("SEED_DUMPSTERS", 20)
	viper.SetDefault("SEED_WASTELANDS", 20)
	viper.SetDefault("SEED_EVENTS", 10)
	viper.SetDefault("TRACING_ENABLED", false)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("config: unable to decode configuration: %w", err)
	}

	switch config.StorageBackend {
	case "file", "redis", "sqlite":
	default:
		return nil, fmt.Errorf("config: unknown storage backend %q", config.StorageBackend)
	}
	return &config, nil
}
