package config

import (
	"log/slog"
	"os"
)

// NewLogger returns a slog.Logger configured from GO_ENV and LOG_LEVEL.
// Production emits JSON; everything else emits text for local readability.
func NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(os.Getenv("LOG_LEVEL"))}
	if os.Getenv("GO_ENV") == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// parseLogLevel maps debug/info/warn/error to slog levels, defaulting to info.
func parseLogLevel(s string) slog.Level {
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
