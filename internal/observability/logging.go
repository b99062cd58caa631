package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogLevelEnv names the environment variable holding the default log level.
const LogLevelEnv = "ZITADEL_LOG_LEVEL"

// NewLogger creates a structured JSON logger on stderr, keeping stdout free
// for command output.
func NewLogger(component string, level slog.Level) *slog.Logger {
	return NewLoggerTo(os.Stderr, component, level)
}

// NewLoggerTo is NewLogger writing to w.
func NewLoggerTo(w io.Writer, component string, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler).With("component", component)
}

// ParseLogLevel parses a log level string into slog.Level.
// Accepts: debug, info, warn, error (case-insensitive).
// Returns LevelInfo if the input is invalid or empty.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// GetLogLevel returns the effective log level from CLI flag and environment variable.
// CLI flag takes precedence over ZITADEL_LOG_LEVEL.
func GetLogLevel(flagLevel string) slog.Level {
	if flagLevel != "" {
		return ParseLogLevel(flagLevel)
	}
	if envLevel := os.Getenv(LogLevelEnv); envLevel != "" {
		return ParseLogLevel(envLevel)
	}
	return slog.LevelInfo
}
