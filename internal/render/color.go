package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// namedColors are the colour keywords used by chart specs
var namedColors = map[string]drawing.Color{
	"white":       drawing.ColorWhite,
	"black":       drawing.ColorBlack,
	"none":        drawing.ColorTransparent,
	"transparent": drawing.ColorTransparent,
}

// parseColor converts "#rgb", "#rrggbb", "#rrggbbaa" or a keyword into a drawing colour
func parseColor(s string) (drawing.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return drawing.Color{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return drawing.Color{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return drawing.Color{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// colorOr parses s and falls back to def when s is empty or invalid
func colorOr(s string, def drawing.Color) drawing.Color {
	if s == "" {
		return def
	}
	c, err := parseColor(s)
	if err != nil {
		return def
	}
	return c
}

// withOpacity scales the alpha channel of c by opacity in (0, 1]
func withOpacity(c drawing.Color, opacity float64) drawing.Color {
	if opacity <= 0 || opacity >= 1 {
		return c
	}
	return c.WithAlpha(uint8(float64(c.A) * opacity))
}
