package charts

import (
	"bytes"
	"fmt"

	gecharts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// PreviewLine converts spec into a go-echarts line chart for a standalone
// preview page. Only the layers, axes, tooltip and zoom survive the
// conversion; band colouring is left to the embedded snippet.
func PreviewLine(spec ChartSpec, title string) *gecharts.Line {
	line := gecharts.NewLine()

	background := spec.BackgroundColor
	if background == DefaultBackground {
		background = ""
	}

	global := []gecharts.GlobalOpts{
		gecharts.WithInitializationOpts(opts.Initialization{
			PageTitle:       title,
			Theme:           types.ThemeWesteros,
			Width:           "900px",
			Height:          fmt.Sprintf("%.0fpx", spec.Grid.Height.Pixels(400)+120),
			BackgroundColor: background,
		}),
		gecharts.WithTitleOpts(opts.Title{
			Title: title,
		}),
		gecharts.WithTooltipOpts(opts.Tooltip{
			Show:    spec.Tooltip.Show,
			Trigger: spec.Tooltip.Trigger,
		}),
		gecharts.WithXAxisOpts(opts.XAxis{
			Name: spec.XAxis.Name,
			Type: spec.XAxis.Type,
		}),
		gecharts.WithYAxisOpts(opts.YAxis{
			Name: "vB/s",
			Type: spec.YAxis.Type,
		}),
		gecharts.WithLegendOpts(opts.Legend{
			Show: true,
		}),
	}

	if spec.DataZoom != nil {
		global = append(global, gecharts.WithDataZoomOpts(opts.DataZoom{
			Type:  spec.DataZoom.Inside.Type,
			Start: 0,
			End:   100,
		}))
		if spec.DataZoom.Slider.Show {
			global = append(global, gecharts.WithDataZoomOpts(opts.DataZoom{
				Type:  spec.DataZoom.Slider.Type,
				Start: 0,
				End:   100,
			}))
		}
	}

	line.SetGlobalOptions(global...)

	for _, layer := range spec.Series {
		data := make([]opts.LineData, 0, len(layer.Data))
		for _, p := range layer.Data {
			data = append(data, opts.LineData{Value: []interface{}{p.Timestamp, p.Value}})
		}

		seriesOpts := []gecharts.SeriesOpts{
			gecharts.WithLineStyleOpts(opts.LineStyle{
				Width: float32(layer.LineStyle.Width),
				Color: layer.LineStyle.Color,
			}),
		}
		if layer.MarkLine != nil {
			for _, item := range layer.MarkLine.Data {
				seriesOpts = append(seriesOpts, gecharts.WithMarkLineNameYAxisItemOpts(opts.MarkLineNameYAxisItem{
					Name:  "reference",
					YAxis: item.YAxis,
				}))
			}
		}

		line.AddSeries(layer.Name, data, seriesOpts...)
	}

	line.SetSeriesOptions(gecharts.WithLineChartOpts(opts.LineChart{Smooth: false}))

	return line
}

// RenderPreview renders the standalone preview page for spec
func RenderPreview(spec ChartSpec, title string) (string, error) {
	var buf bytes.Buffer
	if err := PreviewLine(spec, title).Render(&buf); err != nil {
		return "", fmt.Errorf("failed to render preview page: %w", err)
	}
	return buf.String(), nil
}
