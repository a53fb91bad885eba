package app

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LogLevelDebug, "DEBUG"},
		{LogLevelInfo, "INFO"},
		{LogLevelWarn, "WARN"},
		{LogLevelError, "ERROR"},
		{LogLevel(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		result := tt.level.String()
		if result != tt.expected {
			t.Errorf("LogLevel(%d).String() = '%s', expected '%s'", tt.level, result, tt.expected)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"debug", LogLevelDebug},
		{"DEBUG", LogLevelDebug},
		{"info", LogLevelInfo},
		{"Info", LogLevelInfo},
		{"warn", LogLevelWarn},
		{"warning", LogLevelWarn},
		{"WARNING", LogLevelWarn},
		{"error", LogLevelError},
		{"unknown", LogLevelInfo}, // Default
		{"", LogLevelInfo},        // Default
	}

	for _, tt := range tests {
		result := ParseLogLevel(tt.input)
		if result != tt.expected {
			t.Errorf("ParseLogLevel('%s') = %d, expected %d", tt.input, result, tt.expected)
		}
	}
}

// decodeLines parses JSON log output, one entry per line.
func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		entry := make(map[string]any)
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("invalid log line %q: %v", line, err)
		}
		out = append(out, entry)
	}
	return out
}

func TestLogger_Log(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{
		Level:  LogLevelDebug,
		Output: &buf,
		Prefix: "test",
	})

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	output := buf.String()
	for _, want := range []string{"DEBUG", "INFO", "WARN", "ERROR", "test", "error message"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestLogger_LogLevel_Filtering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{
		Level:  LogLevelWarn,
		Output: &buf,
		JSON:   true,
	})

	logger.Debug("debug")
	logger.Info("info")
	logger.Warn("warn")
	logger.Error("error")

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0]["level"] != "warn" || entries[1]["level"] != "error" {
		t.Errorf("unexpected levels: %v, %v", entries[0]["level"], entries[1]["level"])
	}
}

func TestLogger_Format(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{
		Level:  LogLevelInfo,
		Output: &buf,
		JSON:   true,
	})

	logger.Info("formatted %s %d", "test", 42)
	logger.Info("literal 100%")

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0]["msg"] != "formatted test 42" {
		t.Errorf("msg = %v", entries[0]["msg"])
	}
	if entries[1]["msg"] != "literal 100%" {
		t.Errorf("message without args should not be formatted: %v", entries[1]["msg"])
	}
}

func TestLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{
		Level:  LogLevelInfo,
		Output: &buf,
		JSON:   true,
	})

	logger.WithField("key", "value").Info("one")
	logger.WithFields(map[string]any{"key1": "value1", "key2": 42}).Info("two")
	logger.WithComponent("curline").Info("three")
	logger.Info("four")

	entries := decodeLines(t, &buf)
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}
	if entries[0]["key"] != "value" {
		t.Errorf("WithField: %v", entries[0])
	}
	if entries[1]["key1"] != "value1" || entries[1]["key2"] != float64(42) {
		t.Errorf("WithFields: %v", entries[1])
	}
	if entries[2]["component"] != "curline" {
		t.Errorf("WithComponent: %v", entries[2])
	}
	if _, ok := entries[3]["key"]; ok {
		t.Error("fields should not leak into the parent logger")
	}
}

func TestLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{
		Level:  LogLevelError,
		Output: &buf,
	})
	child := logger.WithComponent("view")

	logger.Info("should not appear")
	if buf.Len() != 0 {
		t.Error("expected no output at error level")
	}

	logger.SetLevel(LogLevelInfo)
	if logger.Level() != LogLevelInfo {
		t.Errorf("Level() = %v, want INFO", logger.Level())
	}
	child.Info("should appear")
	if buf.Len() == 0 {
		t.Error("derived logger should follow SetLevel")
	}
}

func TestLogger_Zap(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{
		Level:  LogLevelInfo,
		Output: &buf,
		JSON:   true,
	})

	logger.Zap().Info("direct")
	entries := decodeLines(t, &buf)
	if len(entries) != 1 || entries[0]["msg"] != "direct" {
		t.Errorf("entries = %v", entries)
	}
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	logger.Debug("test")
	logger.Info("test %d", 1)
	logger.Warn("test")
	logger.WithField("k", "v").Error("test")
	if logger.Zap() == nil {
		t.Error("Zap() returned nil")
	}
}

func TestDefaultLoggerConfig(t *testing.T) {
	cfg := DefaultLoggerConfig()

	if cfg.Level != LogLevelInfo {
		t.Errorf("expected default level INFO, got %d", cfg.Level)
	}
	if cfg.Output == nil {
		t.Error("expected default output to be set")
	}
	if cfg.Prefix != "linelight" {
		t.Errorf("expected prefix 'linelight', got '%s'", cfg.Prefix)
	}
}
