// Package config loads CLI settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Durable media accepted by CALFORM_STORE.
const (
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// Config holds the CLI settings. Command-line flags override these values.
type Config struct {
	Store         string        `env:"CALFORM_STORE" envDefault:"file"`
	Dir           string        `env:"CALFORM_DIR" envDefault:".calform"`
	Namespace     string        `env:"CALFORM_NAMESPACE"`
	RedisAddr     string        `env:"CALFORM_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"CALFORM_REDIS_PASSWORD"`
	RedisDB       int           `env:"CALFORM_REDIS_DB" envDefault:"0"`
	RedisTTL      time.Duration `env:"CALFORM_REDIS_TTL" envDefault:"0s"`
	SQLite        string        `env:"CALFORM_SQLITE_PATH"`
	Registry      string        `env:"CALFORM_REGISTRY"`
	MetricsFile   string        `env:"CALFORM_METRICS_FILE"`
	Lang          string        `env:"CALFORM_LANG" envDefault:"en"`
	LogLevel      string        `env:"CALFORM_LOG_LEVEL" envDefault:"warn"`
	Secret        string        `env:"CALFORM_SECRET"`

	// Previous secrets still accepted for reading after a rotation.
	OldSecrets []string `env:"CALFORM_OLD_SECRETS" envSeparator:","`
	OutDir     string   `env:"CALFORM_OUT_DIR" envDefault:"."`
}

// Load reads .env files (the working directory's .env when none are given)
// into the process environment and parses it. Missing files are ignored.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// FromMap parses cfg from an explicit environment instead of the process one.
func FromMap(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the store selection.
func (c Config) Validate() error {
	switch c.Store {
	case StoreFile, StoreRedis, StoreSQLite, StoreMemory:
		return nil
	default:
		return fmt.Errorf("unknown store %q (want %s, %s, %s or %s)", c.Store, StoreFile, StoreRedis, StoreSQLite, StoreMemory)
	}
}

// FilePath is the JSON document used by the file store.
func (c Config) FilePath() string {
	return filepath.Join(c.Dir, "config.json")
}

// SQLitePath is the database used by the sqlite store.
func (c Config) SQLitePath() string {
	if c.SQLite != "" {
		return c.SQLite
	}
	return filepath.Join(c.Dir, "config.db")
}
