// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, catalog client) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the reader backend.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis): cover cache and ban list
	RedisURL string `env:"REDIS_URL,required"`

	// RS256 key pair for access token signing
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH,required"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// AdminEmails lists the accounts registered with the admin role.
	AdminEmails []string `env:"ADMIN_EMAILS" envSeparator:","`

	// Remote manga catalog
	CatalogBaseURL    string        `env:"CATALOG_BASE_URL"    envDefault:"https://api.mangadex.org"`
	CatalogUploadsURL string        `env:"CATALOG_UPLOADS_URL" envDefault:"https://uploads.mangadex.org"`
	CatalogTimeout    time.Duration `env:"CATALOG_TIMEOUT"     envDefault:"15s"`
	CatalogRPS        float64       `env:"CATALOG_RPS"         envDefault:"5"`
	CatalogPageSize   int           `env:"CATALOG_PAGE_SIZE"   envDefault:"100"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {
	cfg := &Config{}

	// Fails if any field marked 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.CatalogPageSize <= 0 {
		return nil, fmt.Errorf("config: CATALOG_PAGE_SIZE must be positive, got %d", cfg.CatalogPageSize)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins returns the extra CORS origins as a trimmed slice.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.ExtraOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// IsAdminEmail reports whether email is configured as an administrator.
func (c *Config) IsAdminEmail(email string) bool {
	for _, admin := range c.AdminEmails {
		if strings.EqualFold(strings.TrimSpace(admin), email) {
			return true
		}
	}
	return false
}
