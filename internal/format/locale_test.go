package format

import (
	"testing"
	"time"
)

func TestFormatNumberGrouping(t *testing.T) {
	en := NewLocaleFormatter("en-US")
	if got := en.FormatNumber(1234567.4); got != "1,234,567" {
		t.Errorf("en-US FormatNumber = %q, expected 1,234,567", got)
	}
	if got := en.FormatNumber(1999.6); got != "2,000" {
		t.Errorf("en-US FormatNumber rounding = %q, expected 2,000", got)
	}

	de := NewLocaleFormatter("de-DE")
	if got := de.FormatNumber(1234567); got != "1.234.567" {
		t.Errorf("de-DE FormatNumber = %q, expected 1.234.567", got)
	}
}

func TestNewLocaleFormatterFallback(t *testing.T) {
	f := NewLocaleFormatter("not a locale!!")
	if got := f.FormatNumber(1000); got != "1,000" {
		t.Errorf("Fallback FormatNumber = %q, expected 1,000", got)
	}
}

func TestFormatXAxis(t *testing.T) {
	f := NewLocaleFormatter("en")
	ts := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC).UnixMilli()

	tests := []struct {
		window   string
		expected string
	}{
		{"2h", "14:30"},
		{"24h", "14:30"},
		{"3d", "Tue 14:30"},
		{"1w", "Mar 5 14:30"},
		{"1y", "Mar 5"},
		{"all", "Mar 2024"},
		{"unknown", "Mar 5 14:30"},
	}

	for _, tt := range tests {
		if got := f.FormatXAxis(tt.window, ts); got != tt.expected {
			t.Errorf("FormatXAxis(%s) = %q, expected %q", tt.window, got, tt.expected)
		}
	}
}

func TestXAxisLabel(t *testing.T) {
	f := NewLocaleFormatter("en").(*localeFormatter)
	f.now = func() time.Time { return time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC) }

	if got := f.XAxisLabel("24h"); got != "Mar 5, 2024" {
		t.Errorf("XAxisLabel(24h) = %q", got)
	}
	if got := f.XAxisLabel("1w"); got != "2024" {
		t.Errorf("XAxisLabel(1w) = %q", got)
	}
	if got := f.XAxisLabel("all"); got != "" {
		t.Errorf("XAxisLabel(all) = %q, expected empty", got)
	}
}
