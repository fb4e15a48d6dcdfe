package storage

import (
	"testing"
	"time"
)

func TestGetContentType(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"chart.svg", "image/svg+xml"},
		{"CHART.SVG", "image/svg+xml"},
		{"chart.png", "image/png"},
		{"photo.jpeg", "image/jpeg"},
		{"spec.json", "application/json"},
		{"index.html", "text/html"},
		{"summary.md", "text/markdown"},
		{"preferences.yaml", "application/yaml"},
		{"archive.tar.gz", "application/octet-stream"},
		{"noext", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := GetContentType(tt.filename); got != tt.want {
				t.Errorf("GetContentType(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}

func TestCleanName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"chart.svg", "chart.svg", false},
		{"a/./b/chart.svg", "a/b/chart.svg", false},
		{"a\\b.svg", "a/b.svg", false},
		{"a/../b.svg", "b.svg", false},
		{"../b.svg", "", true},
		{"..", "", true},
		{".", "", true},
		{"/abs.svg", "", true},
		{"  ", "", true},
	}

	for _, tt := range tests {
		got, err := CleanName(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("CleanName(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("CleanName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSortNewestFirst(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	files := []FileInfo{
		{Name: "b", Updated: base},
		{Name: "c", Updated: base.Add(time.Minute)},
		{Name: "a", Updated: base},
	}
	sortNewestFirst(files)

	want := []string{"c", "a", "b"}
	for i, f := range files {
		if f.Name != want[i] {
			t.Errorf("position %d: got %s, want %s", i, f.Name, want[i])
		}
	}
}
