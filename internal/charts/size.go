package charts

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Size is a layout dimension given either in pixels ("200") or as a
// percentage of the container ("80%")
type Size struct {
	value   float64
	percent bool
}

// Px returns a pixel size
func Px(v float64) Size {
	return Size{value: v}
}

// Percent returns a percentage size
func Percent(v float64) Size {
	return Size{value: v, percent: true}
}

// ParseSize parses "200", "200px" or "80%"
func ParseSize(s string) (Size, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Size{}, fmt.Errorf("empty size")
	}

	percent := strings.HasSuffix(s, "%")
	num := strings.TrimSuffix(strings.TrimSuffix(s, "%"), "px")
	v, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		return Size{}, fmt.Errorf("invalid size %q: %w", s, err)
	}
	return Size{value: v, percent: percent}, nil
}

// MustSize parses a size and panics on malformed input; for constants only
func MustSize(s string) Size {
	sz, err := ParseSize(s)
	if err != nil {
		panic(err)
	}
	return sz
}

// IsPercent reports whether the size is relative to its container
func (s Size) IsPercent() bool {
	return s.percent
}

// Value returns the raw number, pixels or percent
func (s Size) Value() float64 {
	return s.value
}

// Pixels resolves the size against a container of the given pixel length
func (s Size) Pixels(container float64) float64 {
	if s.percent {
		return container * s.value / 100
	}
	return s.value
}

// Grow returns a pixel size px larger than s, resolving percentages first
func (s Size) Grow(px, container float64) Size {
	return Px(s.Pixels(container) + px)
}

// String returns the size in its input form
func (s Size) String() string {
	v := strconv.FormatFloat(s.value, 'f', -1, 64)
	if s.percent {
		return v + "%"
	}
	return v
}

// MarshalJSON writes pixel sizes as numbers and percentages as strings
func (s Size) MarshalJSON() ([]byte, error) {
	if s.percent {
		return json.Marshal(s.String())
	}
	return json.Marshal(s.value)
}

// UnmarshalJSON accepts a number or a string
func (s *Size) UnmarshalJSON(b []byte) error {
	var v float64
	if err := json.Unmarshal(b, &v); err == nil {
		*s = Px(v)
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return fmt.Errorf("size must be a number or string: %w", err)
	}
	parsed, err := ParseSize(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
