package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestNewLoggerTo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, "zitadel-example", slog.LevelInfo)
	logger.Debug("hidden")
	logger.Info("visible", "key", "value")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected exactly one JSON line, got %q: %v", buf.String(), err)
	}
	if line["component"] != "zitadel-example" || line["msg"] != "visible" || line["key"] != "value" {
		t.Errorf("unexpected line %v", line)
	}
}

func TestNewLogger(t *testing.T) {
	if NewLogger("test-component", slog.LevelDebug) == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"invalid", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseLogLevel(tt.input)
			if got != tt.expected {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestGetLogLevel(t *testing.T) {
	t.Setenv(LogLevelEnv, "warn")
	if got := GetLogLevel(""); got != slog.LevelWarn {
		t.Errorf("env level = %v, want warn", got)
	}
	if got := GetLogLevel("debug"); got != slog.LevelDebug {
		t.Errorf("flag should win over env, got %v", got)
	}
	t.Setenv(LogLevelEnv, "")
	if got := GetLogLevel(""); got != slog.LevelInfo {
		t.Errorf("default level = %v, want info", got)
	}
}
