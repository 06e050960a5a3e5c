package config

import (
	"strings"
	"time"
)

// DefaultRegion is used when neither the environment nor a flag names one
const DefaultRegion = "us-east-1"

// DefaultStorageConfig returns sensible defaults for storage configuration
func DefaultStorageConfig() StorageConfig {
	return StorageConfig{
		Timeout:     30 * time.Second,
		MaxAttempts: 3,
		S3:          S3Config{Region: DefaultRegion},
	}
}

// DefaultConfig returns a complete configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Environment: "local",
		ServiceName: "s3bridge",
		LogLevel:    "info",
		Version:     "1.0.0",
		Storage:     DefaultStorageConfig(),
		Observability: ObservabilityConfig{
			LogFormat: "json",
		},
	}
}

// applyDefaults applies environment-specific defaults
func (c *Config) applyDefaults() {
	c.Observability.LogFormat = strings.ToLower(c.Observability.LogFormat)

	// Humans read local output; aggregators read everything else
	if c.IsLocal() && c.Observability.LogFormat == "" {
		c.Observability.LogFormat = "text"
	}
	if c.Observability.LogFormat == "" {
		c.Observability.LogFormat = "json"
	}

	if c.IsProduction() && c.Storage.S3.Debug {
		// Request logs echo every object key; keep them out of production
		// unless the level asks for debug output
		c.Storage.S3.Debug = strings.EqualFold(c.LogLevel, "debug")
	}
}
