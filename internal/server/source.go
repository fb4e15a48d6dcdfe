package server

import (
	"fmt"
	"os"
	"sync"
	"time"

	"txgraph/internal/models"
)

// SeriesSource reads the series file and reports when its content changed
type SeriesSource struct {
	mu      sync.Mutex
	path    string
	modTime time.Time
	size    int64
}

// NewSeriesSource watches path
func NewSeriesSource(path string) *SeriesSource {
	return &SeriesSource{path: path}
}

// Path returns the watched file
func (s *SeriesSource) Path() string {
	return s.path
}

// Load returns the series when the file changed since the last successful load.
// changed is false, with a nil series, when nothing needs to be applied.
// A missing file is not an error: there is simply no data yet.
func (s *SeriesSource) Load() (series models.Series, changed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := os.Stat(s.path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to stat series file: %w", err)
	}
	if info.ModTime().Equal(s.modTime) && info.Size() == s.size {
		return nil, false, nil
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to open series file: %w", err)
	}
	defer f.Close()

	series, err = models.DecodeSeries(f)
	if err != nil {
		return nil, false, fmt.Errorf("failed to decode series file %s: %w", s.path, err)
	}

	s.modTime = info.ModTime()
	s.size = info.Size()
	return series, true, nil
}
