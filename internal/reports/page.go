package reports

import (
	"fmt"
	"html/template"
	"time"

	"txgraph/internal/charts"
	"txgraph/internal/config"
	"txgraph/internal/format"
	"txgraph/internal/logger"
	"txgraph/internal/models"
)

// DefaultTitle is the page and chart heading
const DefaultTitle = "Incoming transactions"

// PageData is everything a chart page shows
type PageData struct {
	Title         string
	Lang          string
	Spec          charts.ChartSpec
	Series        models.Series
	MovingAverage models.MovingAverage
	Mode          models.RateUnitMode
	Window        string
	Locale        format.LocaleFormatter
	GeneratedAt   time.Time
}

// pageTemplateData is the data of templates/page.html
type pageTemplateData struct {
	Title       string
	Lang        string
	Version     string
	GeneratedAt string
	Chart       template.HTML
	Summary     template.HTML
}

// PageBuilder assembles the standalone chart page
type PageBuilder struct {
	html *HTMLBuilder
	log  *logger.Logger
}

// NewPageBuilder creates a page builder
func NewPageBuilder() *PageBuilder {
	return &PageBuilder{
		html: NewHTMLBuilder(),
		log:  logger.GetGlobalLogger().WithComponent("reports"),
	}
}

// BuildPage renders the chart snippet and summary table into a full HTML page
func (p *PageBuilder) BuildPage(data PageData) (string, error) {
	if data.Title == "" {
		data.Title = DefaultTitle
	}
	if data.Lang == "" {
		data.Lang = "en"
	}
	if data.Locale == nil {
		data.Locale = format.NewLocaleFormatter(data.Lang)
	}
	if data.GeneratedAt.IsZero() {
		data.GeneratedAt = time.Now()
	}

	snippet, err := charts.Snippet(data.Spec, data.Title)
	if err != nil {
		return "", fmt.Errorf("failed to build chart snippet: %w", err)
	}

	summary, err := p.html.ConvertMarkdownToHTML(SummaryMarkdown(data))
	if err != nil {
		return "", err
	}

	page, err := p.html.executeTemplate("page", pageTemplateData{
		Title:       data.Title,
		Lang:        data.Lang,
		Version:     config.GetVersion(),
		GeneratedAt: data.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC"),
		Chart:       template.HTML(snippet.HTML),
		Summary:     template.HTML(summary),
	})
	if err != nil {
		return "", err
	}

	p.log.Debug("Built chart page", map[string]interface{}{
		"chart":  snippet.ID,
		"points": data.Series.Len(),
		"bytes":  len(page),
	})
	return page, nil
}
