package charts

import (
	"errors"

	"txgraph/internal/format"
	"txgraph/internal/logger"
	"txgraph/internal/models"
)

// ErrMissingData is returned when a build is requested before any series has arrived
var ErrMissingData = errors.New("no series data to chart")

const (
	// ReferenceThroughput is the vB/s level marked by the horizontal reference line
	ReferenceThroughput = 1667

	// DataSeriesName names the raw throughput layer
	DataSeriesName = "data"
	// MASeriesName names the moving average layer
	MASeriesName = format.MovingAverageSeriesName

	// DefaultBackground is the chart background outside of exports
	DefaultBackground = "none"
)

// throughputBands are the value bands of the raw series, lowest first
var throughputBands = []struct {
	gt    float64
	lte   float64
	color string
}{
	{0, 1667, "#7CB342"},
	{1667, 2000, "#FDD835"},
	{2000, 2500, "#FFB300"},
	{2500, 3000, "#FB8C00"},
	{3000, 3500, "#F4511E"},
	{3500, 0, "#D81B60"}, // unbounded
}

// outOfRangeColor colours values outside every band
const outOfRangeColor = "#999"

// Sizing holds the grid geometry
type Sizing struct {
	Height Size
	Right  Size
	Top    Size
	Left   Size
}

// DefaultSizing returns the geometry used by the dashboard widget
func DefaultSizing() Sizing {
	return Sizing{
		Height: Px(200),
		Right:  Px(10),
		Top:    Px(20),
		Left:   Px(0),
	}
}

// Input is everything a chart build depends on besides the viewport
type Input struct {
	Series           models.Series
	MovingAverage    models.MovingAverage
	Locale           format.LocaleFormatter
	WindowPreference string
	Template         models.TemplateVariant
	RateUnits        models.RateUnitMode
	Sizing           Sizing
}

// Builder assembles ChartSpecs
type Builder struct {
	viewport ViewportProbe
	log      *logger.Logger
}

// NewBuilder creates a builder that classifies the viewport through probe
func NewBuilder(probe ViewportProbe) *Builder {
	if probe == nil {
		probe = StaticProbe(false)
	}
	return &Builder{
		viewport: probe,
		log:      logger.GetGlobalLogger().WithComponent("charts"),
	}
}

// Build composes a fresh ChartSpec from in.
// The viewport is queried once per call.
func (b *Builder) Build(in Input) (ChartSpec, error) {
	if in.Series == nil {
		return ChartSpec{}, ErrMissingData
	}
	if in.Locale == nil {
		in.Locale = format.NewLocaleFormatter("en")
	}
	if in.Template == "" {
		in.Template = models.TemplateWidget
	}
	if in.Sizing == (Sizing{}) {
		in.Sizing = DefaultSizing()
	}

	narrow := b.viewport.IsNarrow()
	visualMap := buildVisualMap()

	spec := ChartSpec{
		Grid: Grid{
			Height: in.Sizing.Height,
			Right:  in.Sizing.Right,
			Top:    in.Sizing.Top,
			Left:   in.Sizing.Left,
		},
		Animation:       false,
		DataZoom:        buildDataZoom(in.Template, narrow),
		Tooltip:         buildTooltip(in, narrow),
		XAxis:           buildXAxis(in),
		YAxis:           buildYAxis(in.RateUnits),
		Series:          buildSeries(in.Series, in.MovingAverage),
		VisualMap:       visualMap,
		BackgroundColor: DefaultBackground,
	}

	b.log.Debug("Built chart spec", map[string]interface{}{
		"points":   len(in.Series),
		"ma":       in.MovingAverage.Count(),
		"template": string(in.Template),
		"narrow":   narrow,
		"units":    string(in.RateUnits),
	})

	return spec, nil
}

// buildDataZoom locks panning on the widget, enables wheel zoom and the
// slider on the advanced page, and drops zoom entirely for the widget on
// narrow viewports
func buildDataZoom(template models.TemplateVariant, narrow bool) *DataZoom {
	widget := template == models.TemplateWidget
	if widget && narrow {
		return nil
	}
	advanced := template == models.TemplateAdvanced

	return &DataZoom{
		Inside: InsideZoom{
			Type:             "inside",
			Realtime:         true,
			ZoomLock:         widget,
			ZoomOnMouseWheel: advanced,
			MoveOnMouseMove:  widget,
			MaxSpan:          100,
			MinSpan:          10,
		},
		Slider: SliderZoom{
			Type:        "slider",
			Show:        advanced,
			ShowDetail:  false,
			BrushSelect: false,
			Realtime:    true,
			Bottom:      0,
			SelectedDataBackground: SelectedBackground{
				LineStyle: LineStyle{Color: "#fff", Opacity: 0.45},
				AreaStyle: AreaStyle{Opacity: 0},
			},
		},
	}
}

func buildTooltip(in Input, narrow bool) Tooltip {
	width := format.TooltipWidth(in.WindowPreference, in.Template)
	return Tooltip{
		Show:         !narrow,
		Trigger:      "axis",
		ExtraCSSText: "width: " + width + "; background: transparent; border: none; box-shadow: none;",
		AxisPointer:  AxisPointer{Type: "line"},
		Width:        width,
		Formatter:    format.NewFormatter(in.Locale, in.WindowPreference, in.Template),
	}
}

func buildXAxis(in Input) XAxis {
	name := ""
	if in.Template != models.TemplateWidget {
		name = in.Locale.XAxisLabel(in.WindowPreference)
	}
	return XAxis{
		Name:          name,
		NameLocation:  "middle",
		NameTextStyle: TextStyle{Padding: []int{20, 0, 0, 0}},
		Type:          "time",
		AxisLabel: AxisLabel{
			Margin:      20,
			Align:       "center",
			FontSize:    11,
			LineHeight:  12,
			HideOverlap: true,
			Padding:     []int{0, 5},
		},
		Window: in.WindowPreference,
	}
}

func buildYAxis(mode models.RateUnitMode) YAxis {
	return YAxis{
		Type:      "value",
		AxisLabel: AxisLabel{FontSize: 11},
		SplitLine: SplitLine{
			LineStyle: LineStyle{Type: "dotted", Color: "#ffffff66", Opacity: 0.25},
		},
		UnitFactor: format.UnitFactor(mode),
	}
}

// buildSeries returns the raw and smoothed layers, or none for an empty series
func buildSeries(series models.Series, ma models.MovingAverage) []SeriesLayer {
	if len(series) == 0 {
		return []SeriesLayer{}
	}

	maData := make([]models.Point, 0, ma.Count())
	for _, p := range ma.Defined() {
		maData = append(maData, models.Point{Timestamp: p.Timestamp, Value: p.Value})
	}

	return []SeriesLayer{
		{
			Name:      DataSeriesName,
			Type:      "line",
			Data:      append([]models.Point(nil), series...),
			Symbol:    "none",
			LineStyle: LineStyle{Width: 3},
			MarkLine:  referenceLine(),
		},
		{
			Name:      MASeriesName,
			Type:      "line",
			Data:      maData,
			Symbol:    "none",
			LineStyle: LineStyle{Width: 1, Color: "white"},
			MarkLine:  referenceLine(),
		},
	}
}

// referenceLine is the silent horizontal anchor at ReferenceThroughput
func referenceLine() *MarkLine {
	return &MarkLine{
		Silent:    true,
		Symbol:    "none",
		LineStyle: LineStyle{Color: "#fff", Opacity: 1, Width: 2},
		Data: []MarkLineItem{{
			YAxis: ReferenceThroughput,
			Label: MarkLineLabel{Show: false, Color: "#ffffff"},
		}},
	}
}

func buildVisualMap() VisualMap {
	pieces := make([]Piece, 0, len(throughputBands))
	for _, band := range throughputBands {
		p := Piece{Gt: band.gt, Color: band.color}
		if band.lte > band.gt {
			lte := band.lte
			p.Lte = &lte
		}
		pieces = append(pieces, p)
	}
	return VisualMap{
		Show:       false,
		Top:        50,
		Right:      10,
		Pieces:     pieces,
		OutOfRange: OutOfRange{Color: outOfRangeColor},
	}
}
