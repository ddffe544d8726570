// VenueLens - Concert Discovery Recommendations and Model Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuelens

// Package config loads and validates the VenueLens service configuration
// from layered sources: built-in defaults, an optional YAML file, and
// environment variables, in increasing order of precedence.
package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/venuelens/internal/logging"
	"github.com/tomtom215/venuelens/internal/monitor"
	"github.com/tomtom215/venuelens/internal/recommend"
)

// Config is the root configuration for the service.
type Config struct {
	// Server contains the HTTP server settings.
	Server ServerConfig `koanf:"server" json:"server"`

	// Logging contains the log output settings.
	Logging LoggingConfig `koanf:"logging" json:"logging"`

	// Engine contains the recommendation engine parameters.
	Engine recommend.Config `koanf:"engine" json:"engine"`

	// Monitor contains the drift and performance monitoring thresholds.
	Monitor monitor.Config `koanf:"monitor" json:"monitor"`
}

// ServerConfig contains the HTTP server settings.
type ServerConfig struct {
	// Host is the listen address. Default: 0.0.0.0.
	Host string `koanf:"host" json:"host"`

	// Port is the listen port. Default: 8600.
	Port int `koanf:"port" json:"port"`

	// ReadTimeout bounds request reading. Default: 15s.
	ReadTimeout time.Duration `koanf:"read_timeout" json:"read_timeout"`

	// WriteTimeout bounds response writing. Default: 30s.
	WriteTimeout time.Duration `koanf:"write_timeout" json:"write_timeout"`

	// ShutdownTimeout bounds graceful shutdown. Default: 20s.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" json:"shutdown_timeout"`

	// RateLimitReqs is the per-client request budget per window. Default: 100.
	RateLimitReqs int `koanf:"rate_limit_reqs" json:"rate_limit_reqs"`

	// RateLimitWindow is the rate-limit window. Default: 1m.
	RateLimitWindow time.Duration `koanf:"rate_limit_window" json:"rate_limit_window"`

	// RateLimitDisabled turns off rate limiting entirely.
	RateLimitDisabled bool `koanf:"rate_limit_disabled" json:"rate_limit_disabled"`
}

// LoggingConfig contains the log output settings. Converted to a
// logging.Config at startup; the writer always stays stderr.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info.
	Level string `koanf:"level" json:"level"`

	// Format is json or console. Default: json.
	Format string `koanf:"format" json:"format"`

	// Caller includes caller file and line in log records. Default: false.
	Caller bool `koanf:"caller" json:"caller"`
}

// ToLogging converts to the logging package's configuration.
func (l LoggingConfig) ToLogging() logging.Config {
	return logging.Config{
		Level:  l.Level,
		Format: l.Format,
		Caller: l.Caller,
	}
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8600,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 20 * time.Second,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Engine:  *recommend.DefaultConfig(),
		Monitor: *monitor.DefaultConfig(),
	}
}

// Validate checks the configuration for errors, delegating subsystem
// sections to their own validators.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535], got %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be positive, got %v", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be positive, got %v", c.Server.WriteTimeout)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive, got %v", c.Server.ShutdownTimeout)
	}
	if !c.Server.RateLimitDisabled {
		if c.Server.RateLimitReqs < 1 {
			return fmt.Errorf("server.rate_limit_reqs must be positive, got %d", c.Server.RateLimitReqs)
		}
		if c.Server.RateLimitWindow <= 0 {
			return fmt.Errorf("server.rate_limit_window must be positive, got %v", c.Server.RateLimitWindow)
		}
	}

	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of trace/debug/info/warn/error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}

	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	if err := c.Monitor.Validate(); err != nil {
		return fmt.Errorf("monitor: %w", err)
	}
	return nil
}

// ListenAddr returns the host:port pair the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
