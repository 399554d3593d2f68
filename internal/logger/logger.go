// Package logger configures the process-wide slog logger.
package logger

import (
	"log/slog"
	"os"

	"github.com/wuggawugga/adventurebot/internal/config"
)

// Setup builds the global logger. Production gets JSON output for log
// shippers; everything else gets human-readable text.
func Setup(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}

	var handler slog.Handler
	if cfg.Environment == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// WithUser adds the acting user to logger context.
func WithUser(logger *slog.Logger, userID string) *slog.Logger {
	return logger.With("user", userID)
}

// WithGuild adds the guild to logger context.
func WithGuild(logger *slog.Logger, guildID string) *slog.Logger {
	return logger.With("guild", guildID)
}

// WithError adds error to logger context.
func WithError(logger *slog.Logger, err error) *slog.Logger {
	return logger.With("error", err.Error())
}
