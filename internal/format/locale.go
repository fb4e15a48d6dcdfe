package format

import (
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// LocaleFormatter renders axis labels and numbers for a locale
type LocaleFormatter interface {
	// FormatXAxis formats a timestamp (epoch ms) for the given time window key
	FormatXAxis(window string, ts int64) string
	// XAxisLabel returns the x-axis title for the given time window key
	XAxisLabel(window string) string
	// FormatNumber formats a value with no fraction digits
	FormatNumber(v float64) string
}

// localeFormatter is the default LocaleFormatter, backed by golang.org/x/text
type localeFormatter struct {
	tag      language.Tag
	printer  *message.Printer
	location *time.Location
	now      func() time.Time
}

// NewLocaleFormatter creates a formatter for a BCP 47 locale such as "en-US".
// Unknown locales fall back to English.
func NewLocaleFormatter(locale string) LocaleFormatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &localeFormatter{
		tag:      tag,
		printer:  message.NewPrinter(tag),
		location: time.UTC,
		now:      time.Now,
	}
}

// xAxisLayouts maps time window keys to timestamp layouts
var xAxisLayouts = map[string]string{
	"2h":  "15:04",
	"24h": "15:04",
	"3d":  "Mon 15:04",
	"1w":  "Jan 2 15:04",
	"1m":  "Jan 2",
	"3m":  "Jan 2",
	"6m":  "Jan 2",
	"1y":  "Jan 2",
	"2y":  "Jan 2006",
	"3y":  "Jan 2006",
	"4y":  "Jan 2006",
	"all": "Jan 2006",
}

// FormatXAxis formats a timestamp for display on the time axis
func (f *localeFormatter) FormatXAxis(window string, ts int64) string {
	layout, ok := xAxisLayouts[strings.ToLower(window)]
	if !ok {
		layout = "Jan 2 15:04"
	}
	return time.UnixMilli(ts).In(f.location).Format(layout)
}

// XAxisLabel returns the date for short windows and the year for medium ones
func (f *localeFormatter) XAxisLabel(window string) string {
	now := f.now().In(f.location)
	switch strings.ToLower(window) {
	case "2h", "24h":
		return now.Format("Jan 2, 2006")
	case "3d", "1w", "1m", "3m", "6m":
		return now.Format("2006")
	default:
		return ""
	}
}

// FormatNumber formats v rounded to an integer with locale digit grouping
func (f *localeFormatter) FormatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	return f.printer.Sprint(number.Decimal(math.Round(v), number.MaxFractionDigits(0)))
}
