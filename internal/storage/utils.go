package storage

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// contentTypes maps file extensions to MIME types
var contentTypes = map[string]string{
	".svg":  "image/svg+xml",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".json": "application/json",
	".html": "text/html",
	".md":   "text/markdown",
	".txt":  "text/plain",
	".yaml": "application/yaml",
}

// GetContentType determines the MIME content type based on file extension
func GetContentType(filename string) string {
	if ct, ok := contentTypes[strings.ToLower(path.Ext(filename))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// CleanName validates a storage name and returns it in canonical slash form.
// Absolute names and names escaping the storage root are rejected.
func CleanName(name string) (string, error) {
	name = strings.ReplaceAll(strings.TrimSpace(name), "\\", "/")
	if name == "" {
		return "", fmt.Errorf("empty file name")
	}
	if strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("absolute file name %q", name)
	}
	cleaned := path.Clean(name)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("file name %q escapes storage root", name)
	}
	return cleaned, nil
}

// sortNewestFirst orders files by update time, newest first, then by name
func sortNewestFirst(files []FileInfo) {
	sort.Slice(files, func(i, j int) bool {
		if !files[i].Updated.Equal(files[j].Updated) {
			return files[i].Updated.After(files[j].Updated)
		}
		return files[i].Name < files[j].Name
	})
}
