// Package config loads server settings from WARFRONT_* environment
// variables, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr           string        `env:"WARFRONT_HTTP_ADDR" envDefault:":8080"`
	DBDSN              string        `env:"WARFRONT_DB_DSN"`
	MigrationsDir      string        `env:"WARFRONT_MIGRATIONS_DIR" envDefault:"./db/migrations"`
	AutoMigrate        bool          `env:"WARFRONT_AUTO_MIGRATE" envDefault:"false"`
	RedisURL           string        `env:"WARFRONT_REDIS_URL"`
	NotifyStream       string        `env:"WARFRONT_NOTIFY_STREAM" envDefault:"warfront:turn-notifications"`
	NotifyTimeout      time.Duration `env:"WARFRONT_NOTIFY_TIMEOUT" envDefault:"5s"`
	MapsDir            string        `env:"WARFRONT_MAPS_DIR" envDefault:"./maps"`
	TimeoutSchedule    string        `env:"WARFRONT_TIMEOUT_SCHEDULE" envDefault:"@every 1m"`
	TimeoutConcurrency int           `env:"WARFRONT_TIMEOUT_CONCURRENCY" envDefault:"4"`
	LogLevel           string        `env:"WARFRONT_LOG_LEVEL" envDefault:"info"`
	LogFormat          string        `env:"WARFRONT_LOG_FORMAT" envDefault:"text"`
	CORSOrigins        []string      `env:"WARFRONT_CORS_ORIGINS" envSeparator:"," envDefault:"*"`
}

// Load reads the given dotenv files (missing ones are ignored) and then the
// process environment. Variables already set in the environment win.
func Load(dotenvFiles ...string) (Config, error) {
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.TimeoutConcurrency < 1 {
		return Config{}, fmt.Errorf("parse env: WARFRONT_TIMEOUT_CONCURRENCY must be positive, got %d", cfg.TimeoutConcurrency)
	}
	return cfg, nil
}

// UsePostgres reports whether a database is configured. Without one the
// server runs on the in-memory store.
func (c Config) UsePostgres() bool {
	return c.DBDSN != ""
}
