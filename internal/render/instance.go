package render

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"txgraph/internal/charts"
	"txgraph/internal/format"
	"txgraph/internal/logger"
	"txgraph/internal/models"
)

// ErrNoLayers is returned when rendering a spec without series layers
var ErrNoLayers = errors.New("chart has no series to render")

const (
	// TypeSVG and TypePNG are the supported image types
	TypeSVG = "svg"
	TypePNG = "png"

	// ComponentDataZoom names the zoom controls for ImageOptions.ExcludeComponents
	ComponentDataZoom = "dataZoom"

	axisHeight   = 40 // x-axis labels below the grid
	sliderHeight = 30 // zoom slider below the axis
	yAxisWidth   = 60
	yHeadroom    = 1.1
)

// ImageOptions controls a single rasterization
type ImageOptions struct {
	PixelRatio        float64
	ExcludeComponents []string
	Type              string
}

func (o ImageOptions) excludes(component string) bool {
	for _, c := range o.ExcludeComponents {
		if c == component {
			return true
		}
	}
	return false
}

// Instance is a live chart: the most recently applied spec plus a canvas
type Instance struct {
	mu     sync.RWMutex
	option charts.ChartSpec
	width  int
	height float64
	log    *logger.Logger
}

// NewInstance creates a chart instance on a width × height canvas
func NewInstance(width int, height float64) *Instance {
	return &Instance{
		width:  width,
		height: height,
		log:    logger.GetGlobalLogger().WithComponent("render"),
	}
}

// Option returns a copy of the current spec
func (i *Instance) Option() charts.ChartSpec {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.option.Clone()
}

// SetOption replaces the current spec
func (i *Instance) SetOption(spec charts.ChartSpec) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.option = spec.Clone()
}

// CanvasHeight returns the container height percentages resolve against
func (i *Instance) CanvasHeight() float64 {
	return i.height
}

// Width returns the canvas width in CSS pixels
func (i *Instance) Width() int {
	return i.width
}

// DataURL renders the current spec and returns it as a base64 data URL
func (i *Instance) DataURL(opts ImageOptions) (string, error) {
	var buf bytes.Buffer
	if err := i.Render(&buf, opts); err != nil {
		return "", err
	}

	mime := "image/svg+xml"
	if opts.Type == TypePNG {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Dimensions returns the pixel size an image rendered with opts would have
func (i *Instance) Dimensions(opts ImageOptions) (width, height int, err error) {
	graph, err := i.chart(i.Option(), opts)
	if err != nil {
		return 0, 0, err
	}
	return graph.Width, graph.Height, nil
}

// Render writes the current spec as an image to w
func (i *Instance) Render(w io.Writer, opts ImageOptions) error {
	spec := i.Option()

	graph, err := i.chart(spec, opts)
	if err != nil {
		return err
	}

	provider := chart.SVG
	switch opts.Type {
	case "", TypeSVG:
	case TypePNG:
		provider = chart.PNG
	default:
		return fmt.Errorf("unsupported image type %q", opts.Type)
	}

	if err := graph.Render(provider, w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	i.log.Debug("Rendered chart", map[string]interface{}{
		"type":   opts.Type,
		"width":  graph.Width,
		"height": graph.Height,
	})
	return nil
}

// chart translates spec into a go-chart definition
func (i *Instance) chart(spec charts.ChartSpec, opts ImageOptions) (chart.Chart, error) {
	if len(spec.Series) == 0 {
		return chart.Chart{}, ErrNoLayers
	}

	ratio := opts.PixelRatio
	if ratio <= 0 {
		ratio = 1
	}

	gridTop := spec.Grid.Top.Pixels(i.height)
	gridHeight := spec.Grid.Height.Pixels(i.height)
	imageHeight := gridTop + gridHeight + axisHeight
	if spec.DataZoom != nil && spec.DataZoom.Slider.Show && !opts.excludes(ComponentDataZoom) {
		imageHeight += sliderHeight
	}

	minTS, maxTS, maxValue, ok := extent(spec.Series)
	if !ok {
		return chart.Chart{}, ErrNoLayers
	}
	if minTS == maxTS {
		minTS -= int64(time.Minute / time.Millisecond)
		maxTS += int64(time.Minute / time.Millisecond)
	}
	maxValue = math.Max(maxValue, charts.ReferenceThroughput) * yHeadroom

	var locale format.LocaleFormatter
	if spec.Tooltip.Formatter != nil {
		locale = spec.Tooltip.Formatter.Locale()
	} else {
		locale = format.NewLocaleFormatter("en")
	}
	unit := spec.YAxis.UnitFactor
	if unit == 0 {
		unit = 1
	}

	background := colorOr(spec.BackgroundColor, drawing.ColorTransparent)
	labelColor := drawing.ColorFromHex("cccccc")

	graph := chart.Chart{
		Width:  int(math.Round(float64(i.width) * ratio)),
		Height: int(math.Round(imageHeight * ratio)),
		DPI:    chart.DefaultDPI * ratio,
		Background: chart.Style{
			FillColor: background,
			Padding: chart.Box{
				Top:    int(gridTop * ratio),
				Left:   int(spec.Grid.Left.Pixels(float64(i.width)) * ratio),
				Right:  int((spec.Grid.Right.Pixels(float64(i.width)) + yAxisWidth) * ratio),
				Bottom: int((imageHeight - gridTop - gridHeight) * ratio),
			},
		},
		Canvas: chart.Style{
			FillColor: drawing.ColorTransparent,
		},
		XAxis: chart.XAxis{
			Name:      spec.XAxis.Name,
			NameStyle: chart.Style{FontSize: 11, FontColor: labelColor},
			Style:     chart.Style{FontSize: float64(spec.XAxis.AxisLabel.FontSize), FontColor: labelColor},
			Range: &chart.ContinuousRange{
				Min: chart.TimeToFloat64(time.UnixMilli(minTS)),
				Max: chart.TimeToFloat64(time.UnixMilli(maxTS)),
			},
			ValueFormatter: func(v interface{}) string {
				return locale.FormatXAxis(spec.XAxis.Window, toMillis(v))
			},
		},
		YAxis: chart.YAxis{
			Style: chart.Style{FontSize: float64(spec.YAxis.AxisLabel.FontSize), FontColor: labelColor},
			Range: &chart.ContinuousRange{Min: 0, Max: maxValue},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return locale.FormatNumber(f * unit)
				}
				return ""
			},
			GridMajorStyle: chart.Style{
				StrokeColor:     withOpacity(colorOr(spec.YAxis.SplitLine.LineStyle.Color, drawing.ColorWhite), spec.YAxis.SplitLine.LineStyle.Opacity),
				StrokeWidth:     1,
				StrokeDashArray: []float64{2, 2},
			},
		},
	}

	for _, layer := range spec.Series {
		if layer.Name == charts.DataSeriesName {
			graph.Series = append(graph.Series, bandRuns(layer, spec.VisualMap)...)
		} else if len(layer.Data) > 0 {
			graph.Series = append(graph.Series, timeSeries(layer.Name, layer.Data, chart.Style{
				StrokeColor: colorOr(layer.LineStyle.Color, drawing.ColorWhite),
				StrokeWidth: layer.LineStyle.Width,
			}))
		}
		if layer.MarkLine != nil {
			graph.Series = append(graph.Series, markLines(layer, minTS, maxTS)...)
		}
	}

	return graph, nil
}

// extent returns the time span and value maximum over every layer
func extent(layers []charts.SeriesLayer) (minTS, maxTS int64, maxValue float64, ok bool) {
	for _, l := range layers {
		for _, p := range l.Data {
			if !ok {
				minTS, maxTS, maxValue, ok = p.Timestamp, p.Timestamp, p.Value, true
				continue
			}
			if p.Timestamp < minTS {
				minTS = p.Timestamp
			}
			if p.Timestamp > maxTS {
				maxTS = p.Timestamp
			}
			if p.Value > maxValue {
				maxValue = p.Value
			}
		}
	}
	return
}

// bandRuns splits the raw layer into runs sharing a band colour.
// Consecutive runs share their boundary point so the line stays connected.
func bandRuns(layer charts.SeriesLayer, vm charts.VisualMap) []chart.Series {
	var out []chart.Series
	data := layer.Data
	start := 0
	for start < len(data) {
		color := vm.ColorFor(data[start].Value)
		end := start + 1
		for end < len(data) && vm.ColorFor(data[end].Value) == color {
			end++
		}
		last := end
		if last < len(data) {
			last++
		}
		out = append(out, timeSeries(layer.Name, data[start:last], chart.Style{
			StrokeColor: colorOr(color, drawing.ColorWhite),
			StrokeWidth: layer.LineStyle.Width,
		}))
		start = end
	}
	return out
}

// markLines draws every horizontal reference of a layer across the time span
func markLines(layer charts.SeriesLayer, minTS, maxTS int64) []chart.Series {
	ml := layer.MarkLine
	style := chart.Style{
		StrokeColor: withOpacity(colorOr(ml.LineStyle.Color, drawing.ColorWhite), ml.LineStyle.Opacity),
		StrokeWidth: ml.LineStyle.Width,
	}
	out := make([]chart.Series, 0, len(ml.Data))
	for _, item := range ml.Data {
		out = append(out, timeSeries(layer.Name+" reference", []models.Point{
			{Timestamp: minTS, Value: item.YAxis},
			{Timestamp: maxTS, Value: item.YAxis},
		}, style))
	}
	return out
}

func timeSeries(name string, points []models.Point, style chart.Style) chart.TimeSeries {
	ts := chart.TimeSeries{
		Name:    name,
		Style:   style,
		XValues: make([]time.Time, len(points)),
		YValues: make([]float64, len(points)),
	}
	for i, p := range points {
		ts.XValues[i] = p.Time()
		ts.YValues[i] = p.Value
	}
	return ts
}

// toMillis converts a go-chart x value into epoch milliseconds
func toMillis(v interface{}) int64 {
	switch t := v.(type) {
	case time.Time:
		return t.UnixMilli()
	case float64:
		return chart.TimeFromFloat64(t).UnixMilli()
	case int64:
		return t
	default:
		return 0
	}
}
