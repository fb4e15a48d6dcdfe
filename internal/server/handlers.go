package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"txgraph/internal/charts"
	"txgraph/internal/export"
	"txgraph/internal/models"
	"txgraph/internal/prefs"
	"txgraph/internal/render"
	"txgraph/internal/reports"
	"txgraph/internal/storage"
)

// SpecResponse is the body of GET /api/spec
type SpecResponse struct {
	Option   charts.ChartSpec `json:"option"`
	Tooltips map[int64]string `json:"tooltips"`
	Mode     string           `json:"mode"`
	Window   string           `json:"window"`
	Loading  bool             `json:"loading"`
}

// ExportResponse is the body of POST /api/export
type ExportResponse struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// refresh applies the series file to the graph when it changed
func (s *Server) refresh() {
	if s.deps.Source == nil {
		return
	}
	series, changed, err := s.deps.Source.Load()
	if err != nil {
		s.log.Error("Failed to load series", err, map[string]interface{}{"path": s.deps.Source.Path()})
		return
	}
	if !changed {
		return
	}
	if err := s.deps.Graph.OnData(series); err != nil {
		s.log.Warn("Series not applied", map[string]interface{}{"reason": err.Error()})
	}
}

// HandleHealth provides health check endpoint
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	state := s.deps.Graph.State()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks": map[string]interface{}{
			"chart":  state.HasSpec,
			"points": state.Series.Len(),
		},
	})
}

// HandleRoot serves the chart page
func (s *Server) HandleRoot(w http.ResponseWriter, r *http.Request) {
	s.refresh()

	state := s.deps.Graph.State()
	if !state.HasSpec {
		writeError(w, http.StatusServiceUnavailable, "no series data yet")
		return
	}

	page, err := s.deps.Pages.BuildPage(reports.PageData{
		Lang:          s.deps.Locale,
		Spec:          state.Spec,
		Series:        state.Series,
		MovingAverage: state.MovingAverage,
		Mode:          state.Mode,
		Window:        state.Window,
	})
	if err != nil {
		s.log.Error("Failed to build page", err)
		writeError(w, http.StatusInternalServerError, "failed to build page")
		return
	}

	s.deps.Graph.Rendered()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(page))
}

// HandleSpec returns the current chart option as JSON
func (s *Server) HandleSpec(w http.ResponseWriter, r *http.Request) {
	s.refresh()

	state := s.deps.Graph.State()
	if !state.HasSpec {
		writeError(w, http.StatusServiceUnavailable, "no series data yet")
		return
	}
	writeJSON(w, http.StatusOK, SpecResponse{
		Option:   state.Spec,
		Tooltips: charts.Tooltips(state.Spec),
		Mode:     string(state.Mode),
		Window:   state.Window,
		Loading:  state.Loading,
	})
}

// HandleRateUnits switches the broadcast rate unit mode
func (s *Server) HandleRateUnits(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Mode string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	mode, err := models.ParseRateUnitMode(body.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.deps.Hub.Publish(mode)
	writeJSON(w, http.StatusOK, map[string]string{"mode": string(mode)})
}

// HandleWindow stores the window preference and rebuilds the chart
func (s *Server) HandleWindow(w http.ResponseWriter, r *http.Request) {
	if s.deps.Prefs == nil {
		writeError(w, http.StatusNotImplemented, "preferences are not writable")
		return
	}
	var body struct {
		Window string `json:"window"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Window) == "" {
		writeError(w, http.StatusBadRequest, "window is required")
		return
	}

	s.deps.Prefs.SetValue(prefs.GraphWindowPreference, body.Window)
	if err := s.deps.Prefs.Save(); err != nil {
		s.log.Error("Failed to save preferences", err)
		writeError(w, http.StatusInternalServerError, "failed to save preferences")
		return
	}
	if err := s.deps.Graph.Rebuild(); err != nil && !errors.Is(err, charts.ErrMissingData) {
		s.log.Error("Failed to rebuild chart", err)
	}
	writeJSON(w, http.StatusOK, map[string]string{"window": s.deps.Graph.State().Window})
}

// HandleExport renders the live chart to SVG and stores it
func (s *Server) HandleExport(w http.ResponseWriter, r *http.Request) {
	timespan := r.URL.Query().Get("timespan")
	if timespan == "" {
		timespan = s.deps.Graph.State().Window
	}
	if timespan == "" {
		writeError(w, http.StatusBadRequest, "timespan is required")
		return
	}

	filename, err := s.deps.Graph.SaveChart(r.Context(), timespan)
	if err != nil {
		var exportErr *export.ExportError
		switch {
		case errors.Is(err, render.ErrNoLayers):
			writeError(w, http.StatusConflict, "nothing to export yet")
		case errors.As(err, &exportErr):
			writeError(w, http.StatusInternalServerError, exportErr.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, ExportResponse{
		Filename: filename,
		URL:      "/files/" + exportPrefix + "/" + filename,
	})
}

// HandleListExports lists exported images, newest first
func (s *Server) HandleListExports(w http.ResponseWriter, r *http.Request) {
	files, err := s.deps.Storage.List(r.Context(), exportPrefix+"/")
	if err != nil {
		s.log.Error("Failed to list exports", err)
		writeError(w, http.StatusInternalServerError, "failed to list exports")
		return
	}
	if files == nil {
		files = []storage.FileInfo{}
	}
	writeJSON(w, http.StatusOK, files)
}

// HandleFileProxy serves files from local storage or GCS
func (s *Server) HandleFileProxy(w http.ResponseWriter, r *http.Request) {
	name, err := storage.CleanName(chi.URLParam(r, "*"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid file path")
		return
	}

	data, err := s.deps.Storage.GetFile(r.Context(), name)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}
	if err != nil {
		s.log.Error("Failed to get file from storage", err, map[string]interface{}{"file": name})
		writeError(w, http.StatusInternalServerError, "failed to read file")
		return
	}

	w.Header().Set("Content-Type", storage.GetContentType(name))
	w.Write(data)
}
