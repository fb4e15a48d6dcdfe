package charts

import (
	"errors"
	"fmt"
	"testing"

	"txgraph/internal/models"
	"txgraph/internal/smoothing"
)

// stubLocale is a predictable LocaleFormatter for tests
type stubLocale struct{}

func (stubLocale) FormatXAxis(window string, ts int64) string { return fmt.Sprintf("%s@%d", window, ts) }
func (stubLocale) XAxisLabel(window string) string           { return "label-" + window }
func (stubLocale) FormatNumber(v float64) string             { return fmt.Sprintf("%.0f", v) }

// countingProbe records how often the viewport is queried
type countingProbe struct {
	narrow bool
	calls  int
}

func (p *countingProbe) IsNarrow() bool {
	p.calls++
	return p.narrow
}

func testSeries(n int, v float64) models.Series {
	series := make(models.Series, n)
	for i := range series {
		series[i] = models.Point{Timestamp: 1700000000000 + int64(i)*60000, Value: v}
	}
	return series
}

func testInput(series models.Series, template models.TemplateVariant) Input {
	return Input{
		Series:           series,
		MovingAverage:    smoothing.Smooth(series),
		Locale:           stubLocale{},
		WindowPreference: "24h",
		Template:         template,
		RateUnits:        models.RateUnitsVB,
		Sizing:           DefaultSizing(),
	}
}

func TestBuildMissingData(t *testing.T) {
	builder := NewBuilder(StaticProbe(false))

	_, err := builder.Build(testInput(nil, models.TemplateWidget))
	if !errors.Is(err, ErrMissingData) {
		t.Errorf("Expected ErrMissingData, got %v", err)
	}
}

func TestBuildEmptySeries(t *testing.T) {
	builder := NewBuilder(StaticProbe(false))

	spec, err := builder.Build(testInput(models.Series{}, models.TemplateWidget))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(spec.Series) != 0 {
		t.Errorf("Expected no layers for empty series, got %d", len(spec.Series))
	}
	for _, l := range spec.Series {
		if l.MarkLine != nil {
			t.Error("Empty series must not carry a reference line")
		}
	}
}

func TestBuildLayers(t *testing.T) {
	builder := NewBuilder(StaticProbe(false))
	series := testSeries(40, 1500)

	spec, err := builder.Build(testInput(series, models.TemplateWidget))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if len(spec.Series) != 2 {
		t.Fatalf("Expected 2 layers, got %d", len(spec.Series))
	}
	if spec.Series[0].Name != "data" || spec.Series[1].Name != "MA" {
		t.Errorf("Unexpected layer names %q, %q", spec.Series[0].Name, spec.Series[1].Name)
	}

	for _, l := range spec.Series {
		if l.Type != "line" || l.Smooth || l.ShowSymbol || l.Symbol != "none" {
			t.Errorf("Layer %s has unexpected style: %+v", l.Name, l)
		}
		if l.MarkLine == nil {
			t.Fatalf("Layer %s has no reference line", l.Name)
		}
		if !l.MarkLine.Silent {
			t.Errorf("Reference line on %s must be silent", l.Name)
		}
		if len(l.MarkLine.Data) != 1 || l.MarkLine.Data[0].YAxis != ReferenceThroughput {
			t.Errorf("Reference line on %s not at %d: %+v", l.Name, ReferenceThroughput, l.MarkLine.Data)
		}
		if l.MarkLine.Data[0].Label.Show {
			t.Errorf("Reference line label on %s should be hidden", l.Name)
		}
	}

	raw := spec.Series[0]
	if len(raw.Data) != 40 {
		t.Errorf("Expected 40 raw points, got %d", len(raw.Data))
	}
	if raw.LineStyle.Width != 3 {
		t.Errorf("Expected raw line width 3, got %v", raw.LineStyle.Width)
	}

	ma := spec.Series[1]
	if len(ma.Data) != 38 {
		t.Errorf("Expected 38 MA points for 40 samples, got %d", len(ma.Data))
	}
	if ma.Data[0].Timestamp != series[1].Timestamp {
		t.Errorf("First MA point should sit on sample 1")
	}
	if ma.LineStyle.Width != 1 || ma.LineStyle.Color != "white" {
		t.Errorf("Unexpected MA style %+v", ma.LineStyle)
	}
}

func TestBuildDataZoom(t *testing.T) {
	tests := []struct {
		name        string
		template    models.TemplateVariant
		narrow      bool
		expectNil   bool
		zoomLock    bool
		mouseWheel  bool
		moveOnMouse bool
		sliderShown bool
	}{
		{"widget desktop", models.TemplateWidget, false, false, true, false, true, false},
		{"widget mobile", models.TemplateWidget, true, true, false, false, false, false},
		{"advanced desktop", models.TemplateAdvanced, false, false, false, true, false, true},
		{"advanced mobile", models.TemplateAdvanced, true, false, false, true, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder := NewBuilder(StaticProbe(tt.narrow))
			spec, err := builder.Build(testInput(testSeries(10, 100), tt.template))
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}

			if tt.expectNil {
				if spec.DataZoom != nil {
					t.Errorf("Expected no zoom controls, got %+v", spec.DataZoom)
				}
				return
			}
			if spec.DataZoom == nil {
				t.Fatal("Expected zoom controls")
			}

			inside := spec.DataZoom.Inside
			if inside.ZoomLock != tt.zoomLock {
				t.Errorf("zoomLock = %v, expected %v", inside.ZoomLock, tt.zoomLock)
			}
			if inside.ZoomOnMouseWheel != tt.mouseWheel {
				t.Errorf("zoomOnMouseWheel = %v, expected %v", inside.ZoomOnMouseWheel, tt.mouseWheel)
			}
			if inside.MoveOnMouseMove != tt.moveOnMouse {
				t.Errorf("moveOnMouseMove = %v, expected %v", inside.MoveOnMouseMove, tt.moveOnMouse)
			}
			if inside.MaxSpan != 100 || inside.MinSpan != 10 {
				t.Errorf("Unexpected spans %d/%d", inside.MaxSpan, inside.MinSpan)
			}
			if spec.DataZoom.Slider.Show != tt.sliderShown {
				t.Errorf("slider show = %v, expected %v", spec.DataZoom.Slider.Show, tt.sliderShown)
			}
		})
	}
}

func TestBuildTooltipHiddenOnMobile(t *testing.T) {
	for _, template := range []models.TemplateVariant{models.TemplateWidget, models.TemplateAdvanced} {
		mobile, _ := NewBuilder(StaticProbe(true)).Build(testInput(testSeries(5, 1), template))
		if mobile.Tooltip.Show {
			t.Errorf("%s: tooltip should be hidden on mobile", template)
		}

		desktop, _ := NewBuilder(StaticProbe(false)).Build(testInput(testSeries(5, 1), template))
		if !desktop.Tooltip.Show {
			t.Errorf("%s: tooltip should be shown on desktop", template)
		}
		if desktop.Tooltip.Trigger != "axis" || desktop.Tooltip.AxisPointer.Type != "line" {
			t.Errorf("%s: unexpected tooltip %+v", template, desktop.Tooltip)
		}
		if desktop.Tooltip.Formatter == nil {
			t.Errorf("%s: tooltip formatter missing", template)
		}
	}
}

func TestBuildQueriesViewportEveryCall(t *testing.T) {
	probe := &countingProbe{}
	builder := NewBuilder(probe)
	in := testInput(testSeries(5, 1), models.TemplateWidget)

	first, _ := builder.Build(in)
	probe.narrow = true
	second, _ := builder.Build(in)

	if probe.calls != 2 {
		t.Errorf("Expected 2 viewport queries, got %d", probe.calls)
	}
	if first.DataZoom == nil || second.DataZoom != nil {
		t.Error("Viewport change between builds was not honoured")
	}
}

func TestBuildXAxisName(t *testing.T) {
	builder := NewBuilder(StaticProbe(false))

	widget, _ := builder.Build(testInput(testSeries(5, 1), models.TemplateWidget))
	if widget.XAxis.Name != "" {
		t.Errorf("Widget axis title should be empty, got %q", widget.XAxis.Name)
	}

	advanced, _ := builder.Build(testInput(testSeries(5, 1), models.TemplateAdvanced))
	if advanced.XAxis.Name != "label-24h" {
		t.Errorf("Advanced axis title = %q, expected label-24h", advanced.XAxis.Name)
	}
	if advanced.XAxis.Type != "time" {
		t.Errorf("Expected time axis, got %q", advanced.XAxis.Type)
	}
}

func TestBuildYAxisUnitFactor(t *testing.T) {
	builder := NewBuilder(StaticProbe(false))
	in := testInput(testSeries(5, 100), models.TemplateWidget)

	vb, _ := builder.Build(in)
	if vb.YAxis.UnitFactor != 1 {
		t.Errorf("vB mode unit factor = %v, expected 1", vb.YAxis.UnitFactor)
	}

	in.RateUnits = models.RateUnitsWU
	wu, _ := builder.Build(in)
	if wu.YAxis.UnitFactor != 4 {
		t.Errorf("WU mode unit factor = %v, expected 4", wu.YAxis.UnitFactor)
	}
	// stored values are never converted
	if wu.Series[0].Data[0].Value != 100 {
		t.Errorf("WU mode rewrote data: %v", wu.Series[0].Data[0].Value)
	}
}

func TestBuildDefaults(t *testing.T) {
	builder := NewBuilder(nil)
	spec, err := builder.Build(Input{Series: testSeries(3, 1)})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if spec.Grid.Height.String() != "200" || spec.Grid.Top.String() != "20" {
		t.Errorf("Unexpected default grid %+v", spec.Grid)
	}
	if spec.BackgroundColor != DefaultBackground {
		t.Errorf("Expected background %q, got %q", DefaultBackground, spec.BackgroundColor)
	}
	if spec.Animation {
		t.Error("Animation should be off")
	}
}

func TestBuildDoesNotAliasInput(t *testing.T) {
	builder := NewBuilder(StaticProbe(false))
	series := testSeries(5, 100)

	spec, _ := builder.Build(testInput(series, models.TemplateWidget))
	series[0].Value = 9999

	if spec.Series[0].Data[0].Value != 100 {
		t.Error("Spec shares storage with the input series")
	}
}
