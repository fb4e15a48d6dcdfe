package reports

import (
	"fmt"
	"strings"

	"txgraph/internal/charts"
	"txgraph/internal/format"
	"txgraph/internal/models"
	"txgraph/internal/smoothing"
)

// unitSymbol is the rate unit suffix shown for mode
func unitSymbol(mode models.RateUnitMode) string {
	if mode == models.RateUnitsWU {
		return "WU/s"
	}
	return "vB/s"
}

// bandLabel describes the visual map band containing v
func bandLabel(vm charts.VisualMap, v float64, locale format.LocaleFormatter) string {
	for _, p := range vm.Pieces {
		if !p.Contains(v) {
			continue
		}
		swatch := fmt.Sprintf(`<span class="indicator" style="background-color: %s"></span>`, p.Color)
		if p.Lte == nil {
			return fmt.Sprintf("%s above %s", swatch, locale.FormatNumber(p.Gt))
		}
		return fmt.Sprintf("%s %s – %s", swatch, locale.FormatNumber(p.Gt), locale.FormatNumber(*p.Lte))
	}
	return "out of range"
}

// SummaryMarkdown renders the chart state as a markdown table
func SummaryMarkdown(data PageData) string {
	locale := data.Locale
	symbol := unitSymbol(data.Mode)
	window := data.Window
	if window == "" {
		window = "default"
	}

	var b strings.Builder
	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|---|---|\n")
	fmt.Fprintf(&b, "| Window | %s |\n", window)
	fmt.Fprintf(&b, "| Points | %s |\n", locale.FormatNumber(float64(data.Series.Len())))
	fmt.Fprintf(&b, "| Moving average window | %d |\n", smoothing.WindowLength(data.Series.Len()))

	if last, ok := data.Series.Last(); ok {
		fmt.Fprintf(&b, "| Latest rate | %s %s |\n",
			locale.FormatNumber(format.DisplayValue(last.Value, data.Mode)), symbol)
		fmt.Fprintf(&b, "| Band | %s |\n", bandLabel(data.Spec.VisualMap, last.Value, locale))
	} else {
		b.WriteString("| Latest rate | - |\n")
	}

	if avg, ok := data.MovingAverage.Last(); ok {
		fmt.Fprintf(&b, "| Latest moving average | %s %s |\n",
			locale.FormatNumber(format.DisplayValue(avg.Value, data.Mode)), symbol)
	} else {
		b.WriteString("| Latest moving average | - |\n")
	}
	return b.String()
}
