package charts

// MobileBreakpoint is the widest viewport, in CSS pixels, treated as mobile
const MobileBreakpoint = 767.98

// ViewportProbe reports the class of the viewport the chart is shown in.
// The builder asks on every build; answers are never cached.
type ViewportProbe interface {
	IsNarrow() bool
}

// WidthProbe classifies the viewport from a live width reading
type WidthProbe func() float64

// IsNarrow reports whether the current width is at or below MobileBreakpoint
func (p WidthProbe) IsNarrow() bool {
	return p() <= MobileBreakpoint
}

// FixedWidth returns a probe for a viewport of constant width
func FixedWidth(width float64) WidthProbe {
	return func() float64 { return width }
}

// StaticProbe is a probe with a fixed answer
type StaticProbe bool

// IsNarrow returns the fixed answer
func (p StaticProbe) IsNarrow() bool {
	return bool(p)
}
