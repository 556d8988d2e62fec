// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr  string
	DBPath      string
	AuthSecret  []byte
	TokenTTL    time.Duration
	RedisAddr   string
	Environment string
}

// IsDevelopment reports whether the app runs in local development, where the
// auth cookie's Secure flag is dropped so plain-HTTP localhost works.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Load reads configuration from environment variables and returns a
// validated Config. A .env file in the working directory is loaded first,
// best-effort, so local development does not need exported variables.
//
// Required: SHOPFRONT_AUTH_SECRET (at least 32 bytes). Optional with
// defaults: SHOPFRONT_DB_PATH (shopfront.db), SHOPFRONT_LISTEN_ADDR
// (127.0.0.1:8080), SHOPFRONT_TOKEN_TTL (168h), SHOPFRONT_ENV (production).
// SHOPFRONT_REDIS_ADDR, when set, switches the login rate limiter to the
// shared Redis tracker.
func Load() (*Config, error) {
	_ = godotenv.Load()

	secret := os.Getenv("SHOPFRONT_AUTH_SECRET")
	if secret == "" {
		return nil, errors.New("SHOPFRONT_AUTH_SECRET is required")
	}
	if len(secret) < 32 {
		return nil, errors.New("SHOPFRONT_AUTH_SECRET must be at least 32 bytes")
	}

	dbPath := "shopfront.db"
	if v, ok := os.LookupEnv("SHOPFRONT_DB_PATH"); ok {
		dbPath = v
	}

	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("SHOPFRONT_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	tokenTTL := 168 * time.Hour
	if v, ok := os.LookupEnv("SHOPFRONT_TOKEN_TTL"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("SHOPFRONT_TOKEN_TTL has invalid duration %q: %w", v, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("SHOPFRONT_TOKEN_TTL must be positive, got %q", v)
		}
		tokenTTL = parsed
	}

	environment := "production"
	if v, ok := os.LookupEnv("SHOPFRONT_ENV"); ok && v != "" {
		environment = v
	}

	return &Config{
		ListenAddr:  listenAddr,
		DBPath:      dbPath,
		AuthSecret:  []byte(secret),
		TokenTTL:    tokenTTL,
		RedisAddr:   os.Getenv("SHOPFRONT_REDIS_ADDR"),
		Environment: environment,
	}, nil
}
