// Package format converts throughput values for display and renders the
// hover text shown next to the incoming transactions chart.
package format

import (
	"fmt"
	"strings"

	"txgraph/internal/models"
)

const (
	// WeightUnitFactor converts vB/s to WU/s
	WeightUnitFactor = 4

	// MaxTooltipRows caps the legend rows rendered in the tooltip
	MaxTooltipRows = 26

	// MovingAverageSeriesName is the series name excluded from tooltips
	MovingAverageSeriesName = "MA"

	// TooltipOffset is the distance kept between the tooltip box and the chart edge
	TooltipOffset = 80
	// TooltipTop is the vertical offset of the tooltip box
	TooltipTop = -20
)

// UnitFactor returns the multiplier applied to displayed values in the given mode
func UnitFactor(mode models.RateUnitMode) float64 {
	if mode == models.RateUnitsWU {
		return WeightUnitFactor
	}
	return 1
}

// DisplayValue converts a stored vB/s value for the y-axis label.
// Stored data is never rewritten.
func DisplayValue(value float64, mode models.RateUnitMode) float64 {
	return value * UnitFactor(mode)
}

// TooltipItem is one series value under the cursor
type TooltipItem struct {
	SeriesName string
	Color      string
	Value      float64
}

// Placement positions the tooltip box. Exactly one of Left or Right is set.
type Placement struct {
	Top   int
	Left  *int
	Right *int
}

// Formatter renders tooltip text for one chart configuration
type Formatter struct {
	locale   LocaleFormatter
	window   string
	template models.TemplateVariant
}

// NewFormatter creates a tooltip formatter
func NewFormatter(locale LocaleFormatter, window string, template models.TemplateVariant) *Formatter {
	return &Formatter{
		locale:   locale,
		window:   window,
		template: template,
	}
}

// Locale returns the locale formatter used for labels
func (f *Formatter) Locale() LocaleFormatter {
	return f.locale
}

// Window returns the window preference the formatter was built for
func (f *Formatter) Window() string {
	return f.window
}

// Tooltip renders the hover text for the samples at axisValue (epoch ms)
func (f *Formatter) Tooltip(axisValue int64, items []TooltipItem) string {
	var b strings.Builder

	b.WriteString(`<div class="title">`)
	b.WriteString(f.locale.FormatXAxis(f.window, axisValue))
	b.WriteString(`</div>`)

	rows := 0
	for _, item := range items {
		// the moving average is drawn but never listed
		if item.SeriesName == MovingAverageSeriesName {
			continue
		}
		if rows >= MaxTooltipRows {
			break
		}
		fmt.Fprintf(&b, `<div class="item"><div class="indicator-container">%s</div><div class="grow"></div><div class="value">%s<span class="symbol">vB/s</span></div></div>`,
			colorSpan(item.Color), f.locale.FormatNumber(item.Value))
		rows++
	}

	class := "tx-wrapper-tooltip-chart"
	if f.template == models.TemplateAdvanced {
		class += " tx-wrapper-tooltip-chart-advanced"
	}
	return fmt.Sprintf(`<div class="%s">%s</div>`, class, b.String())
}

// TooltipPosition places the tooltip on the side opposite the cursor
func (f *Formatter) TooltipPosition(cursorX, viewWidth float64) Placement {
	offset := TooltipOffset
	p := Placement{Top: TooltipTop}
	if cursorX < viewWidth/2 {
		p.Right = &offset
	} else {
		p.Left = &offset
	}
	return p
}

// TooltipWidth returns the CSS width of the tooltip box
func (f *Formatter) TooltipWidth() string {
	return TooltipWidth(f.window, f.template)
}

// TooltipWidth returns the CSS width of the tooltip box for a window and template
func TooltipWidth(window string, template models.TemplateVariant) string {
	if window == "2h" || window == "24h" || template == models.TemplateWidget {
		return "125px"
	}
	return "135px"
}

func colorSpan(color string) string {
	return `<span class="indicator" style="background-color: ` + color + `"></span>`
}
