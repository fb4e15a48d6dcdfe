package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func newTestLogger(buf *bytes.Buffer, format LogFormat) *Logger {
	return New(Config{
		Level:     DEBUG,
		Format:    format,
		Output:    buf,
		Component: "graph",
	})
}

func decodeLine(t *testing.T, line string) LogEntry {
	t.Helper()
	var entry LogEntry
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("failed to decode log line %q: %v", line, err)
	}
	return entry
}

func TestLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf, JSONFormat)

	log.Info("Series received", map[string]interface{}{"points": 20})

	entry := decodeLine(t, buf.String())
	if entry.Level != "INFO" {
		t.Errorf("expected level INFO, got %s", entry.Level)
	}
	if entry.Message != "Series received" {
		t.Errorf("unexpected message %q", entry.Message)
	}
	if entry.Component != "graph" {
		t.Errorf("expected component graph, got %q", entry.Component)
	}
	if got := entry.Fields["points"]; got != float64(20) {
		t.Errorf("expected points=20, got %v", got)
	}
	if !strings.HasPrefix(entry.Caller, "logger_test.go:") {
		t.Errorf("expected caller in logger_test.go, got %q", entry.Caller)
	}
}

func TestLoggerTextFormat(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf, TextFormat)

	log.Warn("Export slow", map[string]interface{}{"timespan": "24h", "attempt": 2})

	out := buf.String()
	for _, want := range []string{"WARN", "[graph]", "Export slow", "fields={attempt=2, timespan=24h}"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
	if !strings.HasSuffix(out, "\n") {
		t.Errorf("expected trailing newline")
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf, JSONFormat)
	log.SetLevel(WARN)

	log.Debug("hidden")
	log.Info("hidden")
	log.Warn("shown")
	log.Error("shown", errors.New("boom"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	if log.Enabled(INFO) {
		t.Errorf("INFO should be disabled at WARN")
	}
}

func TestLoggerError(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf, JSONFormat)

	log.Error("Render failed", errors.New("canvas too small"), map[string]interface{}{"stage": "render"})

	entry := decodeLine(t, buf.String())
	if entry.Error != "canvas too small" {
		t.Errorf("unexpected error %q", entry.Error)
	}
	if entry.Fields["stage"] != "render" {
		t.Errorf("expected stage field, got %v", entry.Fields)
	}
}

func TestWithComponentSharesOutput(t *testing.T) {
	var buf bytes.Buffer
	base := newTestLogger(&buf, JSONFormat)
	exportLog := base.WithComponent("export")

	base.SetLevel(ERROR)
	exportLog.Info("dropped")
	exportLog.Error("kept", nil)

	entry := decodeLine(t, buf.String())
	if entry.Component != "export" {
		t.Errorf("expected component export, got %q", entry.Component)
	}
	if entry.Message != "kept" {
		t.Errorf("level change on the base logger should apply to derived loggers")
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf, JSONFormat).With(Fields{"window": "24h", "units": "vb"})

	log.Info("Rebuilt", map[string]interface{}{"units": "wu"})

	entry := decodeLine(t, buf.String())
	if entry.Fields["window"] != "24h" {
		t.Errorf("expected sticky window field, got %v", entry.Fields)
	}
	if entry.Fields["units"] != "wu" {
		t.Errorf("call fields should override sticky fields, got %v", entry.Fields["units"])
	}
}

func TestFormattedLogging(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf, JSONFormat)

	log.Infof("Smoothed %d points with window %d", 40, 2)

	entry := decodeLine(t, buf.String())
	if entry.Message != "Smoothed 40 points with window 2" {
		t.Errorf("unexpected message %q", entry.Message)
	}
}

func TestGlobalLogger(t *testing.T) {
	original := GetGlobalLogger()
	defer SetGlobalLogger(original)

	var buf bytes.Buffer
	SetGlobalLogger(newTestLogger(&buf, JSONFormat))

	Info("global message")

	entry := decodeLine(t, buf.String())
	if entry.Message != "global message" {
		t.Errorf("unexpected message %q", entry.Message)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"debug", DEBUG, false},
		{"INFO", INFO, false},
		{"warning", WARN, false},
		{" error ", ERROR, false},
		{"fatal", FATAL, false},
		{"verbose", INFO, true},
		{"", INFO, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("TEXT"); err != nil || f != TextFormat {
		t.Errorf("ParseFormat(TEXT) = %v, %v", f, err)
	}
	if f, err := ParseFormat("json"); err != nil || f != JSONFormat {
		t.Errorf("ParseFormat(json) = %v, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Errorf("expected error for xml")
	}
}

func TestConfigure(t *testing.T) {
	original := GetGlobalLogger()
	defer SetGlobalLogger(original)

	var buf bytes.Buffer
	SetGlobalLogger(New(Config{Level: INFO, Format: JSONFormat, Output: &buf}))

	if err := Configure("debug", "text"); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	Debug("now visible")
	if !strings.Contains(buf.String(), "DEBUG now visible") {
		t.Errorf("expected text debug line, got %q", buf.String())
	}

	if err := Configure("loud", ""); err == nil {
		t.Errorf("expected error for unknown level")
	}
}

func TestLogLevelString(t *testing.T) {
	if DEBUG.String() != "DEBUG" || FATAL.String() != "FATAL" {
		t.Errorf("unexpected level names")
	}
	if LogLevel(42).String() != "UNKNOWN" {
		t.Errorf("expected UNKNOWN for out of range level")
	}
}

func BenchmarkLoggerJSON(b *testing.B) {
	var buf bytes.Buffer
	log := newTestLogger(&buf, JSONFormat)
	fields := map[string]interface{}{"points": 1440}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		log.Info("Series received", fields)
	}
}
