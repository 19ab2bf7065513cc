// Package config loads process settings from environment variables.
//
// Defaults apply to unset values and everything is validated on startup so
// misconfiguration fails fast. Partner definitions live in their own YAML
// file (see package partners); this package only knows where it is.
package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Pipeline PipelineConfig
	Server   ServerConfig
	Logging  LoggingConfig
}

// PipelineConfig holds unification run settings.
type PipelineConfig struct {
	// ConfigPath is the partner configuration file (default: config.yaml)
	ConfigPath string `env:"ELIGIBILITY_CONFIG" default:"config.yaml"`

	// OutputPath is where the unified artifact is written
	OutputPath string `env:"ELIGIBILITY_OUTPUT" default:"output/unified_output.csv"`

	// MaxConcurrent is how many partners are ingested at once (default: 1, sequential)
	MaxConcurrent int `env:"UNIFY_MAX_CONCURRENT" default:"1"`

	// MaxFileSize caps a partner file in bytes (default: 100MB)
	MaxFileSize int64 `env:"INGEST_MAX_FILE_SIZE" default:"104857600"`

	// PreviewRows is how many rows the CLI preview shows (default: 10)
	PreviewRows int `env:"PREVIEW_ROWS" default:"10"`
}

// ServerConfig holds settings for the serve command.
type ServerConfig struct {
	Host string `env:"SERVER_HOST" default:"127.0.0.1"`
	Port int    `env:"SERVER_PORT" default:"8080"`

	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout bounds a single unification triggered over HTTP
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`

	// TrustedProxies is a comma-separated list of proxy CIDRs or IPs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// RequireAPIKey protects /api routes with the X-API-Key header
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.Pipeline.ConfigPath) == "" {
		errs = append(errs, "ELIGIBILITY_CONFIG must not be empty")
	}
	if strings.TrimSpace(c.Pipeline.OutputPath) == "" {
		errs = append(errs, "ELIGIBILITY_OUTPUT must not be empty")
	}
	if c.Pipeline.MaxConcurrent <= 0 {
		errs = append(errs, "UNIFY_MAX_CONCURRENT must be positive")
	}
	if c.Pipeline.MaxFileSize < 0 {
		errs = append(errs, "INGEST_MAX_FILE_SIZE must be non-negative")
	}
	if c.Pipeline.PreviewRows <= 0 {
		errs = append(errs, "PREVIEW_ROWS must be positive")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, "SERVER_REQUEST_TIMEOUT must be positive")
	}
	for _, proxy := range c.Server.TrustedProxies {
		if _, _, err := net.ParseCIDR(proxy); err != nil && net.ParseIP(proxy) == nil {
			errs = append(errs, fmt.Sprintf("TRUSTED_PROXIES entry %q is not a CIDR or IP address", proxy))
		}
	}

	if c.Server.RequireAPIKey && len(c.Server.APIKeys) == 0 {
		errs = append(errs, "REQUIRE_API_KEY is true but API_KEYS is empty")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a one-line representation of the config for logging.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Pipeline: {ConfigPath: %q, OutputPath: %q, MaxConcurrent: %d, MaxFileSize: %d}, "+
			"Server: {Addr: %q}, Logging: {Level: %q, Format: %q}}",
		c.Pipeline.ConfigPath, c.Pipeline.OutputPath, c.Pipeline.MaxConcurrent, c.Pipeline.MaxFileSize,
		c.Server.Addr(), c.Logging.Level, c.Logging.Format,
	)
}
