package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"s3bridge/storage/types"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all application configuration
type Config struct {
	// Core settings
	Environment string
	ServiceName string
	LogLevel    string
	Version     string

	// Component configurations
	Storage       StorageConfig
	Observability ObservabilityConfig
}

// StorageConfig holds object store transport configuration
type StorageConfig struct {
	Timeout     time.Duration
	MaxAttempts int // total attempts per request, the first one included
	S3          S3Config
}

// S3Config holds the S3 connection defaults used when a command does not
// override them
type S3Config struct {
	Region               string
	AccessKeyID          string
	SecretAccessKey      string
	Endpoint             string
	UsePathStyle         bool
	ServerSideEncryption bool
	Debug                bool
}

// ObservabilityConfig holds logging and metrics configuration
type ObservabilityConfig struct {
	LogFormat   string // json or text
	MetricsAddr string // empty disables the metrics endpoint
}

// StoreConfig builds the per-call store configuration
func (c *Config) StoreConfig() types.StoreConfig {
	return types.StoreConfig{
		AccessKeyID:          c.Storage.S3.AccessKeyID,
		SecretAccessKey:      c.Storage.S3.SecretAccessKey,
		Region:               c.Storage.S3.Region,
		ServerSideEncryption: c.Storage.S3.ServerSideEncryption,
		Debug:                c.Storage.S3.Debug,
		Endpoint:             c.Storage.S3.Endpoint,
		UsePathStyle:         c.Storage.S3.UsePathStyle,
		Timeout:              c.Storage.Timeout,
		MaxAttempts:          c.Storage.MaxAttempts,
	}
}

// Validate validates the entire configuration
func (c *Config) Validate() error {
	var errs []string

	if c.ServiceName == "" {
		errs = append(errs, "SERVICE_NAME is required")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Sprintf("LOG_LEVEL %q is not one of debug, info, warn, error", c.LogLevel))
	}

	if c.Storage.Timeout <= 0 {
		errs = append(errs, "STORAGE_TIMEOUT must be positive")
	}
	if c.Storage.MaxAttempts < 0 {
		errs = append(errs, "STORAGE_MAX_ATTEMPTS cannot be negative")
	}
	if c.Storage.S3.Region == "" {
		errs = append(errs, "AWS_REGION is required")
	}

	switch strings.ToLower(c.Observability.LogFormat) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("OBSERVABILITY_LOG_FORMAT %q must be json or text", c.Observability.LogFormat))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errs, "; "))
	}

	return nil
}

// ValidateCredentials reports missing static credentials. Operations need
// them; loading configuration does not.
func (c *Config) ValidateCredentials() error {
	var errs []string
	if c.Storage.S3.AccessKeyID == "" {
		errs = append(errs, "AWS_ACCESS_KEY_ID is required")
	}
	if c.Storage.S3.SecretAccessKey == "" {
		errs = append(errs, "AWS_SECRET_ACCESS_KEY is required")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errs, "; "))
	}
	return nil
}
