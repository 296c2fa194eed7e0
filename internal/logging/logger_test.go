package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"", zapcore.InfoLevel},
		{"info", zapcore.InfoLevel},
		{"ERROR", zapcore.ErrorLevel},
		{"warn", zapcore.WarnLevel},
		{" debug ", zapcore.Level(-DEBUG)},
		{"trace", zapcore.Level(-TRACE)},
	}
	for _, tt := range tests {
		got, err := parseLevel(tt.input)
		if err != nil {
			t.Errorf("parseLevel(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("parseLevel(%q): expected %v, got %v", tt.input, tt.expected, got)
		}
	}

	if _, err := parseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNew(t *testing.T) {
	logger, err := New("debug", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !logger.V(DEBUG).Enabled() {
		t.Error("expected V(DEBUG) to be enabled at debug level")
	}
	if logger.V(TRACE).Enabled() {
		t.Error("expected V(TRACE) to be disabled at debug level")
	}

	logger, err = New("info", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logger.V(VERBOSE).Enabled() {
		t.Error("expected V(VERBOSE) to be disabled at info level")
	}

	if _, err := New("nope", false); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNewTestLogger(t *testing.T) {
	if !NewTestLogger().V(TRACE).Enabled() {
		t.Error("expected test logger to enable every verbosity")
	}
}
