// Package logger assembles the application slog pipeline: JSON output with
// rotation, sensitive-attribute masking, and optional Sentry fan-out.
package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Config controls log destination, level, and Sentry reporting.
type Config struct {
	Level      string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`

	SentryDSN     string `mapstructure:"sentry_dsn"`
	SentryEnabled bool   `mapstructure:"sentry_enabled"`
	Environment   string `mapstructure:"-"`
}

// New builds the application logger. When cfg.File is set, output is rotated
// with lumberjack; otherwise it goes to stdout. When Sentry is enabled,
// warn-and-above records are fanned out to Sentry as well.
func New(cfg Config, level *slog.LevelVar) (*slog.Logger, error) {
	var out io.Writer = os.Stdout
	if cfg.File != "" {
		out = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
	}

	if level == nil {
		level = new(slog.LevelVar)
	}
	level.Set(ParseLevel(cfg.Level))

	jsonHandler := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	handler := slog.Handler(NewMaskingHandler(jsonHandler))

	if cfg.SentryEnabled && cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Environment,
		}); err != nil {
			return nil, err
		}

		sentryHandler := slogsentry.Option{Level: slog.LevelWarn}.NewSentryHandler()
		handler = slogmulti.Fanout(handler, sentryHandler)
	}

	return slog.New(handler), nil
}

// ParseLevel maps a config string onto a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
