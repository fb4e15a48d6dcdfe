package reports

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageTemplates holds every embedded template, keyed by file name
var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))
