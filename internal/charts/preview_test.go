package charts

import (
	"strings"
	"testing"

	"txgraph/internal/models"
)

func TestRenderPreview(t *testing.T) {
	spec, err := NewBuilder(StaticProbe(false)).Build(testInput(testSeries(40, 2100), models.TemplateAdvanced))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	page, err := RenderPreview(spec, "Incoming transactions")
	if err != nil {
		t.Fatalf("RenderPreview failed: %v", err)
	}

	for _, want := range []string{"Incoming transactions", `"data"`, `"MA"`, "1667"} {
		if !strings.Contains(page, want) {
			t.Errorf("Preview page is missing %s", want)
		}
	}
}

func TestPreviewLineSeriesCount(t *testing.T) {
	spec, _ := NewBuilder(StaticProbe(false)).Build(testInput(testSeries(10, 1), models.TemplateWidget))

	line := PreviewLine(spec, "preview")
	if len(line.MultiSeries) != 2 {
		t.Errorf("Expected 2 preview series, got %d", len(line.MultiSeries))
	}
}
