// Package config loads cost-seer settings from .env files and COSTSEER_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// Config holds runtime settings. Process environment variables win over
// values read from .env files.
type Config struct {
	// HTTPAddr is the listen address for the API server.
	HTTPAddr string `env:"COSTSEER_HTTP_ADDR" envDefault:":8080"`
	// Storage selects the estimate backend: sqlite or memory.
	Storage string `env:"COSTSEER_STORAGE" envDefault:"sqlite"`
	// DBPath is the SQLite database file.
	DBPath string `env:"COSTSEER_DB_PATH" envDefault:"costseer.db"`
	// RedisAddr enables the Redis list cache when set.
	RedisAddr string `env:"COSTSEER_REDIS_ADDR"`
	// CacheTTL bounds how long a cached estimate list is served.
	CacheTTL time.Duration `env:"COSTSEER_CACHE_TTL" envDefault:"5m"`
	// JWTSecret signs and verifies identity tokens. Empty disables auth.
	JWTSecret string `env:"COSTSEER_JWT_SECRET"`
	JWTIssuer string `env:"COSTSEER_JWT_ISSUER" envDefault:"cost-seer"`
	LogLevel  string `env:"COSTSEER_LOG_LEVEL" envDefault:"info"`
	// RateLimit is the number of POST requests a client may make per RateWindow.
	RateLimit  int           `env:"COSTSEER_RATE_LIMIT" envDefault:"5"`
	RateWindow time.Duration `env:"COSTSEER_RATE_WINDOW" envDefault:"1m"`
}

// Load reads the given .env files (missing files are skipped), overlays the
// process environment and parses the result into a Config.
func Load(envFiles ...string) (Config, error) {
	vars := map[string]string{}
	for _, path := range envFiles {
		if strings.TrimSpace(path) == "" {
			continue
		}
		fileVars, err := godotenv.Read(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("load env file %q: %w", path, err)
		}
		for k, v := range fileVars {
			vars[k] = v
		}
	}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok {
			vars[k] = v
		}
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that env tags cannot express.
func (c Config) Validate() error {
	switch c.Storage {
	case StorageSQLite:
		if strings.TrimSpace(c.DBPath) == "" {
			return fmt.Errorf("COSTSEER_DB_PATH is required for sqlite storage")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("COSTSEER_STORAGE must be %q or %q, got %q", StorageSQLite, StorageMemory, c.Storage)
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("COSTSEER_RATE_LIMIT must be greater than zero")
	}
	if c.RateWindow <= 0 {
		return fmt.Errorf("COSTSEER_RATE_WINDOW must be greater than zero")
	}
	return nil
}
