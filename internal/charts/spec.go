package charts

import (
	"encoding/json"

	"txgraph/internal/format"
	"txgraph/internal/models"
)

// ChartSpec is a renderer-agnostic description of the incoming transactions
// chart. Field tags follow the ECharts option names so a spec marshals
// directly into an option object.
type ChartSpec struct {
	Grid            Grid          `json:"grid"`
	Animation       bool          `json:"animation"`
	DataZoom        *DataZoom     `json:"dataZoom"`
	Tooltip         Tooltip       `json:"tooltip"`
	XAxis           XAxis         `json:"xAxis"`
	YAxis           YAxis         `json:"yAxis"`
	Series          []SeriesLayer `json:"series"`
	VisualMap       VisualMap     `json:"visualMap"`
	BackgroundColor string        `json:"backgroundColor,omitempty"`
}

// Grid positions the plot area
type Grid struct {
	Height Size `json:"height"`
	Right  Size `json:"right"`
	Top    Size `json:"top"`
	Left   Size `json:"left"`
}

// DataZoom holds the zoom/pan components. A nil *DataZoom means no zoom controls.
type DataZoom struct {
	Inside InsideZoom
	Slider SliderZoom
}

// MarshalJSON writes the components as the ECharts dataZoom array
func (d DataZoom) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{d.Inside, d.Slider})
}

// InsideZoom is zooming and panning inside the plot area
type InsideZoom struct {
	Type             string `json:"type"`
	Realtime         bool   `json:"realtime"`
	ZoomLock         bool   `json:"zoomLock"`
	ZoomOnMouseWheel bool   `json:"zoomOnMouseWheel"`
	MoveOnMouseMove  bool   `json:"moveOnMouseMove"`
	MaxSpan          int    `json:"maxSpan"`
	MinSpan          int    `json:"minSpan"`
}

// SliderZoom is the range slider under the plot area
type SliderZoom struct {
	Type                   string             `json:"type"`
	Show                   bool               `json:"show"`
	ShowDetail             bool               `json:"showDetail"`
	BrushSelect            bool               `json:"brushSelect"`
	Realtime               bool               `json:"realtime"`
	Bottom                 int                `json:"bottom"`
	SelectedDataBackground SelectedBackground `json:"selectedDataBackground"`
}

// SelectedBackground styles the data preview inside the selected slider range
type SelectedBackground struct {
	LineStyle LineStyle `json:"lineStyle"`
	AreaStyle AreaStyle `json:"areaStyle"`
}

// AreaStyle styles a filled area
type AreaStyle struct {
	Opacity float64 `json:"opacity"`
}

// Tooltip describes hover behaviour.
// Position and content callbacks are attached by the renderer; Formatter renders the content.
type Tooltip struct {
	Show         bool              `json:"show"`
	Trigger      string            `json:"trigger"`
	ExtraCSSText string            `json:"extraCssText"`
	AxisPointer  AxisPointer       `json:"axisPointer"`
	Width        string            `json:"-"`
	Formatter    *format.Formatter `json:"-"`
}

// AxisPointer styles the hover guide
type AxisPointer struct {
	Type string `json:"type"`
}

// XAxis is the time axis
type XAxis struct {
	Name          string    `json:"name"`
	NameLocation  string    `json:"nameLocation"`
	NameTextStyle TextStyle `json:"nameTextStyle"`
	Type          string    `json:"type"`
	AxisLabel     AxisLabel `json:"axisLabel"`
	Window        string    `json:"-"`
}

// TextStyle styles axis names
type TextStyle struct {
	Padding []int `json:"padding,omitempty"`
}

// AxisLabel styles tick labels
type AxisLabel struct {
	Margin      int    `json:"margin,omitempty"`
	Align       string `json:"align,omitempty"`
	FontSize    int    `json:"fontSize"`
	LineHeight  int    `json:"lineHeight,omitempty"`
	HideOverlap bool   `json:"hideOverlap,omitempty"`
	Padding     []int  `json:"padding,omitempty"`
}

// YAxis is the throughput axis. UnitFactor scales tick labels only.
type YAxis struct {
	Type       string    `json:"type"`
	AxisLabel  AxisLabel `json:"axisLabel"`
	SplitLine  SplitLine `json:"splitLine"`
	UnitFactor float64   `json:"-"`
}

// SplitLine styles horizontal grid lines
type SplitLine struct {
	LineStyle LineStyle `json:"lineStyle"`
}

// LineStyle styles a stroke
type LineStyle struct {
	Type    string  `json:"type,omitempty"`
	Width   float64 `json:"width,omitempty"`
	Color   string  `json:"color,omitempty"`
	Opacity float64 `json:"opacity,omitempty"`
}

// SeriesLayer is one drawn line
type SeriesLayer struct {
	ZLevel     int            `json:"zlevel"`
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	Data       []models.Point `json:"data"`
	Smooth     bool           `json:"smooth"`
	ShowSymbol bool           `json:"showSymbol"`
	Symbol     string         `json:"symbol"`
	LineStyle  LineStyle      `json:"lineStyle"`
	MarkLine   *MarkLine      `json:"markLine,omitempty"`
}

// MarkLine is a horizontal reference line drawn with a series
type MarkLine struct {
	Silent    bool           `json:"silent"`
	Symbol    string         `json:"symbol"`
	LineStyle LineStyle      `json:"lineStyle"`
	Data      []MarkLineItem `json:"data"`
}

// MarkLineItem places one reference line
type MarkLineItem struct {
	YAxis float64       `json:"yAxis"`
	Label MarkLineLabel `json:"label"`
}

// MarkLineLabel styles the reference line label
type MarkLineLabel struct {
	Show  bool   `json:"show"`
	Color string `json:"color"`
}

// VisualMap colours the raw series by value band
type VisualMap struct {
	Show       bool       `json:"show"`
	Top        int        `json:"top"`
	Right      int        `json:"right"`
	Pieces     []Piece    `json:"pieces"`
	OutOfRange OutOfRange `json:"outOfRange"`
}

// Piece is a half-open band (Gt, Lte]. A nil Lte leaves the band unbounded.
type Piece struct {
	Gt    float64  `json:"gt"`
	Lte   *float64 `json:"lte,omitempty"`
	Color string   `json:"color"`
}

// OutOfRange is the colour used outside every band
type OutOfRange struct {
	Color string `json:"color"`
}

// Contains reports whether v falls in the band
func (p Piece) Contains(v float64) bool {
	return v > p.Gt && (p.Lte == nil || v <= *p.Lte)
}

// ColorFor returns the colour of the first band containing v, low to high
func (vm VisualMap) ColorFor(v float64) string {
	for _, p := range vm.Pieces {
		if p.Contains(v) {
			return p.Color
		}
	}
	return vm.OutOfRange.Color
}

// MarshalJSON writes the spec as an ECharts option; xAxis is emitted as an array
func (s ChartSpec) MarshalJSON() ([]byte, error) {
	type option ChartSpec
	return json.Marshal(struct {
		option
		XAxis []XAxis `json:"xAxis"`
	}{option(s), []XAxis{s.XAxis}})
}

// Layer returns the series layer with the given name
func (s ChartSpec) Layer(name string) (SeriesLayer, bool) {
	for _, l := range s.Series {
		if l.Name == name {
			return l, true
		}
	}
	return SeriesLayer{}, false
}

// WithGridHeight returns a copy of the spec with a different grid height
func (s ChartSpec) WithGridHeight(h Size) ChartSpec {
	c := s.Clone()
	c.Grid.Height = h
	return c
}

// WithBackground returns a copy of the spec with a different background colour
func (s ChartSpec) WithBackground(color string) ChartSpec {
	c := s.Clone()
	c.BackgroundColor = color
	return c
}

// Clone returns a deep copy of the spec
func (s ChartSpec) Clone() ChartSpec {
	c := s
	if s.DataZoom != nil {
		dz := *s.DataZoom
		c.DataZoom = &dz
	}
	c.XAxis.NameTextStyle.Padding = cloneInts(s.XAxis.NameTextStyle.Padding)
	c.XAxis.AxisLabel.Padding = cloneInts(s.XAxis.AxisLabel.Padding)
	c.YAxis.AxisLabel.Padding = cloneInts(s.YAxis.AxisLabel.Padding)

	if s.Series != nil {
		c.Series = make([]SeriesLayer, len(s.Series))
		for i, l := range s.Series {
			l.Data = append([]models.Point(nil), l.Data...)
			if l.MarkLine != nil {
				ml := *l.MarkLine
				ml.Data = append([]MarkLineItem(nil), ml.Data...)
				l.MarkLine = &ml
			}
			c.Series[i] = l
		}
	}

	if s.VisualMap.Pieces != nil {
		c.VisualMap.Pieces = make([]Piece, len(s.VisualMap.Pieces))
		for i, p := range s.VisualMap.Pieces {
			if p.Lte != nil {
				lte := *p.Lte
				p.Lte = &lte
			}
			c.VisualMap.Pieces[i] = p
		}
	}
	return c
}

func cloneInts(in []int) []int {
	if in == nil {
		return nil
	}
	return append([]int(nil), in...)
}
