// Package export produces downloadable snapshots of the live chart.
package export

import (
	"context"
	"fmt"
	"time"

	"txgraph/internal/charts"
	"txgraph/internal/logger"
	"txgraph/internal/render"
)

const (
	// ExportBackground is the opaque background painted behind exported images
	ExportBackground = "#11131f"
	// ExportMargin is the extra grid height, in pixels, given to exports
	ExportMargin = 20
	// ExportPixelRatio is the resolution multiplier of exported images
	ExportPixelRatio = 2

	StageRender   = "render"
	StageDownload = "download"
)

// ChartInstance is the live chart an export reads and temporarily restyles
type ChartInstance interface {
	Option() charts.ChartSpec
	SetOption(spec charts.ChartSpec)
	CanvasHeight() float64
	DataURL(opts render.ImageOptions) (string, error)
}

// Downloader hands a rendered image to the user
type Downloader interface {
	Download(ctx context.Context, dataURL, filename string) error
}

// ExportError reports which export stage failed
type ExportError struct {
	Stage string
	Err   error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s failed: %v", e.Stage, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// Exporter renders the live chart to an SVG and passes it to a Downloader
type Exporter struct {
	downloader Downloader
	now        func() time.Time
	log        *logger.Logger
}

// NewExporter creates an exporter delivering images through d
func NewExporter(d Downloader) *Exporter {
	return &Exporter{
		downloader: d,
		now:        time.Now,
		log:        logger.GetGlobalLogger().WithComponent("export"),
	}
}

// Filename returns the export file name for timespan at t
func Filename(timespan string, t time.Time) string {
	return fmt.Sprintf("incoming-vbytes-%s-%d.svg", timespan, (t.UnixMilli()+500)/1000)
}

// ImageOptions are the rendering options used for every export
func ImageOptions() render.ImageOptions {
	return render.ImageOptions{
		PixelRatio:        ExportPixelRatio,
		ExcludeComponents: []string{render.ComponentDataZoom},
		Type:              render.TypeSVG,
	}
}

// ExportImage renders inst with an opaque background and a taller grid,
// delivers it, and returns the file name. The instance option is restored
// on every path.
func (e *Exporter) ExportImage(ctx context.Context, inst ChartInstance, timespan string) (string, error) {
	previous := inst.Option()
	defer inst.SetOption(previous)

	height := previous.Grid.Height.Grow(ExportMargin, inst.CanvasHeight())
	inst.SetOption(previous.WithGridHeight(height).WithBackground(ExportBackground))

	dataURL, err := inst.DataURL(ImageOptions())
	if err != nil {
		e.log.Error("Failed to render export", err, map[string]interface{}{"timespan": timespan})
		return "", &ExportError{Stage: StageRender, Err: err}
	}

	filename := Filename(timespan, e.now())
	if err := e.downloader.Download(ctx, dataURL, filename); err != nil {
		e.log.Error("Failed to deliver export", err, map[string]interface{}{"filename": filename})
		return "", &ExportError{Stage: StageDownload, Err: err}
	}

	e.log.Info("Exported chart", map[string]interface{}{
		"filename": filename,
		"height":   height.String(),
	})
	return filename, nil
}
