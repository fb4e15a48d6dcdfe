package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"txgraph/internal/broadcast"
	"txgraph/internal/charts"
	"txgraph/internal/config"
	"txgraph/internal/export"
	"txgraph/internal/graph"
	"txgraph/internal/logger"
	"txgraph/internal/prefs"
	"txgraph/internal/render"
	"txgraph/internal/reports"
	"txgraph/internal/storage"
)

// exportPrefix is the storage folder of exported images
const exportPrefix = "exports"

// Deps are the components a server drives
type Deps struct {
	Graph    *graph.Graph
	Hub      *broadcast.Hub
	Storage  storage.StorageClient
	Prefs    *prefs.YAMLStore
	Source   *SeriesSource
	Pages    *reports.PageBuilder
	Locale   string
}

// Server represents the main application server
type Server struct {
	Config *config.Config
	deps   Deps
	router chi.Router
	log    *logger.Logger
}

// NewServer wires every component from cfg
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	mode, err := storage.ParseDeploymentMode(cfg.StorageMode)
	if err != nil {
		return nil, err
	}
	store, err := storage.NewStorageClient(ctx, mode, cfg)
	if err != nil {
		return nil, err
	}

	preferences, err := prefs.LoadYAMLStore(cfg.PreferencesFile)
	if err != nil {
		store.Close()
		return nil, err
	}

	sizing, err := cfg.Sizing()
	if err != nil {
		store.Close()
		return nil, err
	}

	hub := broadcast.NewHub(cfg.Units())
	instance := render.NewInstance(cfg.ChartWidth, cfg.CanvasHeight)
	exporter := export.NewExporter(export.NewStorageDownloader(store, exportPrefix))

	g, err := graph.New(graph.Options{
		Locale:           cfg.Locale,
		Template:         cfg.Template(),
		WindowPreference: cfg.WindowPreference,
		Sizing:           sizing,
		RateUnits:        cfg.Units(),
	}, graph.Deps{
		Prefs:    preferences,
		Hub:      hub,
		Viewport: charts.FixedWidth(cfg.ViewportWidth),
		Instance: instance,
		Exporter: exporter,
	})
	if err != nil {
		store.Close()
		return nil, err
	}

	return NewServerWithDeps(cfg, Deps{
		Graph:   g,
		Hub:     hub,
		Storage: store,
		Prefs:   preferences,
		Source:  NewSeriesSource(cfg.SeriesFile),
		Pages:   reports.NewPageBuilder(),
		Locale:  cfg.Locale,
	}), nil
}

// NewServerWithDeps creates a server around already built components
func NewServerWithDeps(cfg *config.Config, deps Deps) *Server {
	if deps.Pages == nil {
		deps.Pages = reports.NewPageBuilder()
	}
	s := &Server{
		Config: cfg,
		deps:   deps,
		log:    logger.GetGlobalLogger().WithComponent("server"),
	}
	s.router = s.SetupRoutes()
	return s
}

// SetupRoutes configures HTTP routes for the server
func (s *Server) SetupRoutes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.HandleHealth)
	r.Get("/", s.HandleRoot)

	r.Route("/api", func(r chi.Router) {
		r.Get("/spec", s.HandleSpec)
		r.Put("/rate-units", s.HandleRateUnits)
		r.Put("/window", s.HandleWindow)
		r.Post("/export", s.HandleExport)
		r.Get("/exports", s.HandleListExports)
	})

	r.Get("/files/*", s.HandleFileProxy)

	return r
}

// Handler returns the HTTP handler of the server
func (s *Server) Handler() http.Handler {
	return s.router
}

// requestLogger logs every request through the server logger
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("Request served", map[string]interface{}{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   ww.Status(),
			"duration": time.Since(start).String(),
			"request":  middleware.GetReqID(r.Context()),
		})
	})
}

// ListenAndServe serves on addr until SIGINT/SIGTERM or ctx is done
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Server listening", map[string]interface{}{"addr": addr})
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

// Close releases the graph subscription and the storage client
func (s *Server) Close() error {
	if s.deps.Graph != nil {
		s.deps.Graph.Dispose()
	}
	if s.deps.Storage != nil {
		return s.deps.Storage.Close()
	}
	return nil
}
