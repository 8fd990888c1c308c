package logging

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"
)

func TestLevel_Constants(t *testing.T) {
	if LevelDebug != 0 {
		t.Errorf("LevelDebug = %d, want 0", LevelDebug)
	}
	if LevelError != 3 {
		t.Errorf("LevelError = %d, want 3", LevelError)
	}
}

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{Level(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("Level.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"debug", LevelDebug},
		{"TRACE", LevelDebug},
		{"info", LevelInfo},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"nonsense", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	logger := New("test-service")

	if logger == nil {
		t.Fatal("New() returned nil")
	}
	if logger.Name() != "test-service" {
		t.Errorf("name = %v, want test-service", logger.Name())
	}
}

func TestNewLogger_FanOut(t *testing.T) {
	var primary, extra bytes.Buffer
	logger := NewLogger(LoggerConfig{
		ServiceName:       "arcq",
		Level:             "debug",
		Format:            "json",
		Output:            &primary,
		AdditionalOutputs: []io.Writer{&extra},
	})

	logger.Info("run finished", "statements", 3)

	for name, buf := range map[string]*bytes.Buffer{"primary": &primary, "extra": &extra} {
		var rec map[string]interface{}
		if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
			t.Fatalf("%s: invalid JSON %q: %v", name, buf.String(), err)
		}
		if rec["msg"] != "run finished" {
			t.Errorf("%s: msg = %v", name, rec["msg"])
		}
		if rec["service"] != "arcq" {
			t.Errorf("%s: service = %v", name, rec["service"])
		}
		if rec["statements"] != float64(3) {
			t.Errorf("%s: statements = %v", name, rec["statements"])
		}
	}
}

func TestLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: "info", Output: &buf})

	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug record written at info level: %q", buf.String())
	}

	logger.SetLevel(LevelDebug)
	logger.WithField("component", "parser").Debug("visible")
	if !strings.Contains(buf.String(), "visible") || !strings.Contains(buf.String(), "component=parser") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestLogger_Nil(t *testing.T) {
	var logger *Logger

	logger.Info("ignored")
	logger.With("k", "v").Error("ignored")
	if logger.Enabled(LevelError) {
		t.Error("nil logger should not be enabled")
	}
	if logger.Slog() == nil {
		t.Error("Slog() should never return nil")
	}
}
