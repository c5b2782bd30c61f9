// Package log provides structured logging for capdex.
package log

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/capdex/capdex/internal/config"
)

// New creates a slog.Logger based on configuration. The pretty format uses
// a coloured terminal handler; json uses slog's JSON handler.
func New(cfg config.AppConfig) *slog.Logger {
	return NewWithWriter(os.Stdout, cfg.LogFormat(), cfg.LogLevel())
}

// NewWithWriter creates a logger that writes to the given writer.
func NewWithWriter(w io.Writer, format config.LogFormat, level string) *slog.Logger {
	lvl := parseLevel(level)

	var handler slog.Handler
	switch format {
	case config.LogFormatJSON:
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	default:
		handler = newTerminalHandler(w, &slog.HandlerOptions{Level: lvl})
	}

	return slog.New(handler)
}

// Configure creates a logger from configuration and installs it as the
// process-wide slog default.
func Configure(cfg config.AppConfig) *slog.Logger {
	logger := New(cfg)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
