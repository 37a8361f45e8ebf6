// Copyright (c) 2026 Userhub. All rights reserved.
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
  - DI-Friendly: Passed to core components (DB, Redis, token service) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/userhub/internal/platform/sec"
)

// # Configuration Schema

// Config holds all runtime configuration for the Userhub API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// UserCacheTTL bounds how long a user profile stays in Redis.
	UserCacheTTL time.Duration `env:"USER_CACHE_TTL" envDefault:"5m"`

	// Token signing. TokenSecret signs; TokenPreviousSecrets still verify.
	TokenSecret          string   `env:"TOKEN_SECRET,required"`
	TokenPreviousSecrets []string `env:"TOKEN_PREVIOUS_SECRETS" envSeparator:","`

	// BcryptCost is the password hashing work factor.
	BcryptCost int `env:"BCRYPT_COST" envDefault:"12"`

	// Cross-Origin Resource Sharing (production only; development allows any origin)
	AllowedOriginSuffix string `env:"ALLOWED_ORIGIN_SUFFIX" envDefault:"userhub.app"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct and validates it.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that env tags alone cannot express.
func (c *Config) Validate() error {
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("config: BCRYPT_COST must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
	}
	if len(c.TokenSecret) < sec.MinSecretLength {
		return fmt.Errorf("config: TOKEN_SECRET must be at least %d bytes", sec.MinSecretLength)
	}
	if c.UserCacheTTL < 0 {
		return fmt.Errorf("config: USER_CACHE_TTL must not be negative")
	}
	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// OriginSuffix returns the domain suffix accepted by CORS outside development.
func (c *Config) OriginSuffix() string {
	return c.AllowedOriginSuffix
}
