package reports

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// HTMLBuilder turns summary markdown into HTML and fills the page templates
type HTMLBuilder struct {
	md    goldmark.Markdown
	pages *template.Template
}

// NewHTMLBuilder creates a builder using GFM tables and the embedded templates
func NewHTMLBuilder() *HTMLBuilder {
	return &HTMLBuilder{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			// summary cells carry colour swatches
			goldmark.WithRendererOptions(html.WithHardWraps(), html.WithUnsafe()),
		),
		pages: pageTemplates,
	}
}

// ConvertMarkdownToHTML renders markdown to an HTML fragment
func (h *HTMLBuilder) ConvertMarkdownToHTML(markdown string) (string, error) {
	var out bytes.Buffer
	if err := h.md.Convert([]byte(markdown), &out); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return out.String(), nil
}

// executeTemplate fills templates/<name>.html with data
func (h *HTMLBuilder) executeTemplate(name string, data interface{}) (string, error) {
	tmpl := h.pages.Lookup(name + ".html")
	if tmpl == nil {
		return "", fmt.Errorf("unknown page template %q", name)
	}

	var out bytes.Buffer
	if err := tmpl.Execute(&out, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return out.String(), nil
}
