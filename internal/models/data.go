package models

import (
	"fmt"
	"strings"
	"time"
)

// Point represents a single throughput sample
type Point struct {
	Timestamp int64   // epoch milliseconds
	Value     float64 // vB/s
}

// Time returns the sample timestamp as a UTC time
func (p Point) Time() time.Time {
	return time.UnixMilli(p.Timestamp).UTC()
}

// Series is an ordered run of samples, oldest first.
// A nil Series means no data has arrived yet; an empty non-nil Series is present but empty.
type Series []Point

// Len returns the number of samples
func (s Series) Len() int {
	return len(s)
}

// Last returns the most recent sample
func (s Series) Last() (Point, bool) {
	if len(s) == 0 {
		return Point{}, false
	}
	return s[len(s)-1], true
}

// MAPoint is one slot of a moving average series
type MAPoint struct {
	Timestamp int64
	Value     float64
	Valid     bool
}

// MovingAverage is the smoothed companion of a Series.
// It has exactly one slot per source index; edge slots are not Valid.
type MovingAverage struct {
	slots []MAPoint
}

// NewMovingAverage allocates n empty slots
func NewMovingAverage(n int) MovingAverage {
	return MovingAverage{slots: make([]MAPoint, n)}
}

// Set stores an average at index i
func (m MovingAverage) Set(i int, timestamp int64, value float64) {
	m.slots[i] = MAPoint{Timestamp: timestamp, Value: value, Valid: true}
}

// At returns the slot at index i and whether it holds a value
func (m MovingAverage) At(i int) (MAPoint, bool) {
	if i < 0 || i >= len(m.slots) {
		return MAPoint{}, false
	}
	p := m.slots[i]
	return p, p.Valid
}

// Len returns the number of slots, matching the source series length
func (m MovingAverage) Len() int {
	return len(m.slots)
}

// Count returns the number of defined slots
func (m MovingAverage) Count() int {
	n := 0
	for _, p := range m.slots {
		if p.Valid {
			n++
		}
	}
	return n
}

// Defined returns the valid slots in index order
func (m MovingAverage) Defined() []MAPoint {
	out := make([]MAPoint, 0, len(m.slots))
	for _, p := range m.slots {
		if p.Valid {
			out = append(out, p)
		}
	}
	return out
}

// Last returns the most recent defined average
func (m MovingAverage) Last() (MAPoint, bool) {
	for i := len(m.slots) - 1; i >= 0; i-- {
		if m.slots[i].Valid {
			return m.slots[i], true
		}
	}
	return MAPoint{}, false
}

// RateUnitMode selects how throughput is displayed
type RateUnitMode string

const (
	RateUnitsVB RateUnitMode = "vb" // virtual bytes per second
	RateUnitsWU RateUnitMode = "wu" // weight units per second
)

// ParseRateUnitMode parses a rate unit key
func ParseRateUnitMode(s string) (RateUnitMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "vb", "vbytes":
		return RateUnitsVB, nil
	case "wu", "weight":
		return RateUnitsWU, nil
	default:
		return "", fmt.Errorf("unknown rate units %q", s)
	}
}

// TemplateVariant selects the layout density of the chart
type TemplateVariant string

const (
	TemplateWidget   TemplateVariant = "widget"
	TemplateAdvanced TemplateVariant = "advanced"
)

// ParseTemplateVariant parses a template name
func ParseTemplateVariant(s string) (TemplateVariant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "widget":
		return TemplateWidget, nil
	case "advanced":
		return TemplateAdvanced, nil
	default:
		return "", fmt.Errorf("unknown template %q", s)
	}
}
