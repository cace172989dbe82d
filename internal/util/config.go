package util

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Backends understood by Config.Backend.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config holds runtime settings. Values come from SISYPHUS_* variables and
// may be overridden by command-line flags.
type Config struct {
	Backend       string        `env:"SISYPHUS_BACKEND" envDefault:"sqlite"`
	DSN           string        `env:"SISYPHUS_DSN"`
	SQLitePath    string        `env:"SISYPHUS_SQLITE_PATH" envDefault:"sisyphus.db"`
	MigrationsDir string        `env:"SISYPHUS_MIGRATIONS_DIR" envDefault:"db/migrations"`
	SaveName      string        `env:"SISYPHUS_SAVE" envDefault:"default"`
	Vault         string        `env:"SISYPHUS_VAULT" envDefault:"."`
	Seed          string        `env:"SISYPHUS_SEED"`
	Theme         string        `env:"SISYPHUS_THEME" envDefault:"catppuccin"`
	SweepInterval time.Duration `env:"SISYPHUS_SWEEP_INTERVAL" envDefault:"1m"`
	LogLevel      string        `env:"SISYPHUS_LOG_LEVEL" envDefault:"info"`
	LogFormat     string        `env:"SISYPHUS_LOG_FORMAT" envDefault:"text"`
	Quiet         bool          `env:"SISYPHUS_QUIET"`
}

// Load reads .env (when present) and then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks settings that flags may have changed.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("sqlite backend needs a database path")
		}
	case BackendPostgres:
		if c.DSN == "" {
			return fmt.Errorf("postgres backend needs SISYPHUS_DSN")
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.SaveName == "" {
		return fmt.Errorf("save name is empty")
	}
	return nil
}
