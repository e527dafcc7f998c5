package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/crmkit/crmctl/internal/errors"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"Warning", LevelWarn},
		{"error", LevelError},
		{" error ", LevelError},
		{"bogus", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	if ParseFormat("json") != FormatJSON {
		t.Error("ParseFormat(json) != FormatJSON")
	}
	if ParseFormat("text") != FormatText {
		t.Error("ParseFormat(text) != FormatText")
	}
	if ParseFormat("bogus") != FormatText {
		t.Error("ParseFormat should default to text")
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelWarn, Format: FormatText, Output: NewOutput(&buf)})

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("messages below WARN leaked through: %q", out)
	}
	if !strings.Contains(out, "warn message") {
		t.Errorf("warn message missing: %q", out)
	}
}

func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Format: FormatJSON, Output: NewOutput(&buf)})

	logger.Info("hello", "key", "value")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "hello" || entry["key"] != "value" {
		t.Errorf("entry = %v", entry)
	}
}

func TestLogger_WithError(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Format: FormatJSON, Output: NewOutput(&buf)})

	crmErr := errors.Wrap(errors.ErrCodeNetworkFailed, "could not reach the CRM backend",
		fmt.Errorf("connection refused"))
	logger.WithError(crmErr).Error("request failed")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["error_code"] != "API-001" {
		t.Errorf("error_code = %v", entry["error_code"])
	}
	if entry["cause"] != "connection refused" {
		t.Errorf("cause = %v", entry["cause"])
	}
}

func TestLogger_WithError_PlainError(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Format: FormatJSON, Output: NewOutput(&buf)})

	logger.WithError(fmt.Errorf("plain failure")).Error("request failed")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["error"] != "plain failure" {
		t.Errorf("error = %v", entry["error"])
	}
	if _, ok := entry["error_code"]; ok {
		t.Error("plain errors carry no error_code")
	}
}

func TestLogger_WithError_Nil(t *testing.T) {
	logger := Default()
	if logger.WithError(nil) != logger {
		t.Error("WithError(nil) should return the receiver")
	}
}

func TestLogger_Enabled(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelWarn, Format: FormatText, Output: NewOutput(&buf)})

	ctx := context.Background()
	if logger.Enabled(ctx, LevelDebug) {
		t.Error("debug should be disabled at WARN")
	}
	if !logger.Enabled(ctx, LevelError) {
		t.Error("error should be enabled at WARN")
	}
}

func TestSetDefaultLogger(t *testing.T) {
	original := DefaultLogger()
	defer SetDefaultLogger(original)

	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Format: FormatText, Output: NewOutput(&buf)})
	SetDefaultLogger(logger)

	if DefaultLogger() != logger {
		t.Error("DefaultLogger() should return the logger just set")
	}
}
