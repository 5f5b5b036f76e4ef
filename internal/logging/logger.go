package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"go-simpler.org/env"
)

// Logger is the application-wide structured logger instance.
var Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

// Settings are read from the process environment.
type Settings struct {
	Level  string `env:"ENVGUARD_LOG_LEVEL" default:"warn"`
	Format string `env:"ENVGUARD_LOG_FORMAT" default:"text"`
}

// LoadSettings reads logging settings from ENVGUARD_* variables.
func LoadSettings() (*Settings, error) {
	var s Settings
	if err := env.Load(&s, nil); err != nil {
		return nil, fmt.Errorf("failed to load logging settings: %w", err)
	}
	return &s, nil
}

// InitLogger initializes the global logger with the specified level and format.
// level: "debug", "info", "warn", "error" (defaults to "warn")
// format: "json" or "text" (defaults to "text")
// Log records go to w so they never mix with report output on stdout.
func InitLogger(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	Logger = slog.New(handler)
	slog.SetDefault(Logger)
	return Logger
}

// ParseLevel maps a level name to a slog level, falling back to warn.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// WithFile returns a logger with file field.
func WithFile(path string) *slog.Logger {
	return Logger.With("file", path)
}

// WithError returns a logger with error field.
func WithError(err error) *slog.Logger {
	return Logger.With("error", err)
}
