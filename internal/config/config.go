// VendorHub - Corporate Vendor Management and Procurement
// Copyright 2026 VendorHub Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vendorhub/vendorhub

// Package config provides layered configuration loading for VendorHub
// using Koanf v2: built-in defaults, then an optional YAML file, then
// environment variables.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Security SecurityConfig `koanf:"security"`
	Audit    AuditConfig    `koanf:"audit"`
	Notify   NotifyConfig   `koanf:"notify"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	StaticDir       string        `koanf:"static_dir"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	// Environment is "development" or "production"; production tightens
	// validation (cookie security, bcrypt cost).
	Environment string `koanf:"environment"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	// Path is the database file path; ":memory:" for ephemeral storage.
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	// Threads is the DuckDB thread count; 0 uses runtime.NumCPU().
	Threads int `koanf:"threads"`
}

// SecurityConfig holds authentication and authorization settings.
type SecurityConfig struct {
	// SessionStore selects the session backend: "memory" or "badger".
	SessionStore     string        `koanf:"session_store"`
	SessionStorePath string        `koanf:"session_store_path"`
	SessionTTL       time.Duration `koanf:"session_ttl"`
	SlidingSession   bool          `koanf:"sliding_session"`

	CookieName   string `koanf:"cookie_name"`
	CookieSecure bool   `koanf:"cookie_secure"`

	// BcryptCost is the bcrypt cost factor for password hashing.
	BcryptCost int `koanf:"bcrypt_cost"`

	// Lockout settings for repeated failed logins.
	LockoutEnabled     bool          `koanf:"lockout_enabled"`
	LockoutMaxAttempts int           `koanf:"lockout_max_attempts"`
	LockoutDuration    time.Duration `koanf:"lockout_duration"`

	// Rate limiting for the API route groups.
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitLogin    int           `koanf:"rate_limit_login"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	CORSOrigins []string `koanf:"cors_origins"`
}

// AuditConfig holds audit logger settings.
type AuditConfig struct {
	Enabled         bool          `koanf:"enabled"`
	BufferSize      int           `koanf:"buffer_size"`
	RetentionDays   int           `koanf:"retention_days"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
	LogToStdout     bool          `koanf:"log_to_stdout"`
}

// NotifyConfig holds settings for the internal notification event bus.
type NotifyConfig struct {
	Enabled    bool  `koanf:"enabled"`
	BufferSize int64 `koanf:"buffer_size"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for invalid combinations.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535], got %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	switch c.Security.SessionStore {
	case "memory", "badger":
	default:
		return fmt.Errorf("security.session_store must be \"memory\" or \"badger\", got %q", c.Security.SessionStore)
	}
	if c.Security.SessionStore == "badger" && c.Security.SessionStorePath == "" {
		return fmt.Errorf("security.session_store_path is required for the badger session store")
	}
	if c.Security.SessionTTL <= 0 {
		return fmt.Errorf("security.session_ttl must be positive")
	}
	if c.Security.BcryptCost < 4 || c.Security.BcryptCost > 31 {
		return fmt.Errorf("security.bcrypt_cost must be in [4, 31], got %d", c.Security.BcryptCost)
	}
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return fmt.Errorf("audit.buffer_size must be positive when audit is enabled")
	}
	if c.IsProduction() {
		if c.Security.BcryptCost < 10 {
			return fmt.Errorf("security.bcrypt_cost must be at least 10 in production")
		}
	}
	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Addr returns the listen address in host:port form.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
