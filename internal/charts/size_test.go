package charts

import (
	"encoding/json"
	"testing"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		input   string
		value   float64
		percent bool
		wantErr bool
	}{
		{"200", 200, false, false},
		{" 200px ", 200, false, false},
		{"80%", 80, true, false},
		{"12.5", 12.5, false, false},
		{"", 0, false, true},
		{"tall", 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			s, err := ParseSize(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSize(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if s.Value() != tt.value || s.IsPercent() != tt.percent {
				t.Errorf("ParseSize(%q) = %v (percent=%v)", tt.input, s.Value(), s.IsPercent())
			}
		})
	}
}

func TestSizeGrow(t *testing.T) {
	if got := Px(200).Grow(20, 400); got.Value() != 220 || got.IsPercent() {
		t.Errorf("Px(200).Grow(20) = %v", got)
	}
	if got := Percent(50).Grow(20, 400); got.Value() != 220 || got.IsPercent() {
		t.Errorf("Percent(50).Grow(20) over 400 = %v", got)
	}
}

func TestSizeJSON(t *testing.T) {
	b, _ := json.Marshal(Px(200))
	if string(b) != "200" {
		t.Errorf("Px(200) marshals to %s", b)
	}
	b, _ = json.Marshal(Percent(80))
	if string(b) != `"80%"` {
		t.Errorf("Percent(80) marshals to %s", b)
	}

	var s Size
	if err := json.Unmarshal([]byte(`"75%"`), &s); err != nil || !s.IsPercent() || s.Value() != 75 {
		t.Errorf("Unmarshal 75%% = %v, %v", s, err)
	}
	if err := json.Unmarshal([]byte(`120`), &s); err != nil || s.IsPercent() || s.Value() != 120 {
		t.Errorf("Unmarshal 120 = %v, %v", s, err)
	}
	if err := json.Unmarshal([]byte(`true`), &s); err == nil {
		t.Error("Expected error for boolean size")
	}
}

func TestWidthProbe(t *testing.T) {
	if !FixedWidth(767.98).IsNarrow() {
		t.Error("767.98 should be narrow")
	}
	if !FixedWidth(320).IsNarrow() {
		t.Error("320 should be narrow")
	}
	if FixedWidth(768).IsNarrow() {
		t.Error("768 should not be narrow")
	}

	width := 1024.0
	probe := WidthProbe(func() float64 { return width })
	if probe.IsNarrow() {
		t.Error("1024 should not be narrow")
	}
	width = 500
	if !probe.IsNarrow() {
		t.Error("Probe should re-read the width")
	}
}
