// Package config loads deployment settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	RedisAddr   string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	DataDir     string `env:"DATA_DIR" envDefault:"./data"`
	Theme       string `env:"THEME" envDefault:"default"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// TunablesPath optionally points at a YAML file overriding the
	// resolution engine's balance constants.
	TunablesPath string `env:"TUNABLES_PATH"`

	// AdventureCountdown is how long rosters stay open before an
	// encounter resolves.
	AdventureCountdown time.Duration `env:"ADVENTURE_COUNTDOWN" envDefault:"2m"`

	// ReactionTimeout bounds every wait for a player reply.
	ReactionTimeout time.Duration `env:"REACTION_TIMEOUT" envDefault:"30s"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return &cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
