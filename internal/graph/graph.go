// Package graph hosts the incoming transactions chart: it reacts to new
// series data and rate unit changes by rebuilding the chart spec and
// applying it to the live chart instance.
package graph

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"txgraph/internal/broadcast"
	"txgraph/internal/charts"
	"txgraph/internal/export"
	"txgraph/internal/format"
	"txgraph/internal/logger"
	"txgraph/internal/models"
	"txgraph/internal/prefs"
	"txgraph/internal/smoothing"
)

// ErrDisposed is returned by entry points called after Dispose
var ErrDisposed = errors.New("graph disposed")

// Options are the static inputs of a graph
type Options struct {
	Locale string
	// Template selects the widget or advanced layout
	Template models.TemplateVariant
	// WindowPreference overrides the stored window key when set
	WindowPreference string
	Sizing           charts.Sizing
	// RateUnits is the mode used when no hub is attached
	RateUnits models.RateUnitMode
}

// Deps are the collaborators of a graph
type Deps struct {
	Prefs    prefs.Store
	Hub      *broadcast.Hub
	Viewport charts.ViewportProbe
	Instance export.ChartInstance
	Exporter *export.Exporter
}

// State is a snapshot of what the graph currently shows
type State struct {
	Series        models.Series
	MovingAverage models.MovingAverage
	Spec          charts.ChartSpec
	HasSpec       bool
	Mode          models.RateUnitMode
	Window        string
	Loading       bool
}

// Graph is the host of one chart. All entry points are serialized.
type Graph struct {
	mu       sync.Mutex
	opts     Options
	deps     Deps
	builder  *charts.Builder
	locale   format.LocaleFormatter
	series   models.Series
	ma       models.MovingAverage
	mode     models.RateUnitMode
	spec     charts.ChartSpec
	hasSpec  bool
	loading  bool
	sub      *broadcast.Subscription
	disposed bool
	log      *logger.Logger
}

// New creates a graph and subscribes it to the rate unit hub
func New(opts Options, deps Deps) (*Graph, error) {
	if deps.Instance == nil {
		return nil, fmt.Errorf("chart instance is required")
	}
	if deps.Prefs == nil {
		deps.Prefs = prefs.NewMemoryStore(nil)
	}
	if opts.Template == "" {
		opts.Template = models.TemplateWidget
	}
	if opts.RateUnits == "" {
		opts.RateUnits = models.RateUnitsVB
	}

	g := &Graph{
		opts:    opts,
		deps:    deps,
		builder: charts.NewBuilder(deps.Viewport),
		locale:  format.NewLocaleFormatter(opts.Locale),
		mode:    opts.RateUnits,
		loading: true,
		log:     logger.GetGlobalLogger().WithComponent("graph"),
	}

	if deps.Hub != nil {
		// replays the current mode before any data has arrived
		g.sub = deps.Hub.Subscribe(func(mode models.RateUnitMode) {
			if err := g.OnModeChange(mode); err != nil && !errors.Is(err, ErrDisposed) {
				g.log.Error("Failed to apply rate units", err, map[string]interface{}{"mode": string(mode)})
			}
		})
	}
	return g, nil
}

// Run creates a graph, passes it to fn and disposes it however fn returns
func Run(opts Options, deps Deps, fn func(*Graph) error) (err error) {
	g, err := New(opts, deps)
	if err != nil {
		return err
	}
	defer g.Dispose()
	return fn(g)
}

// OnData replaces the series, recomputes the moving average and rebuilds.
// A nil series is missing data: nothing changes and ErrMissingData is returned.
func (g *Graph) OnData(series models.Series) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.disposed {
		return ErrDisposed
	}
	if series == nil {
		g.log.Warn("Series missing, keeping current chart")
		return charts.ErrMissingData
	}

	g.series = append(models.Series(nil), series...)
	g.ma = smoothing.Smooth(g.series)
	g.log.Debug("Series received", map[string]interface{}{
		"points": len(series),
		"window": smoothing.WindowLength(len(series)),
	})
	return g.rebuild()
}

// OnModeChange switches rate units, rebuilding when a series is present
func (g *Graph) OnModeChange(mode models.RateUnitMode) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.disposed {
		return ErrDisposed
	}
	g.mode = mode
	if g.series == nil {
		return nil
	}
	return g.rebuild()
}

// OnViewportChange rebuilds so the viewport class is queried again
func (g *Graph) OnViewportChange() error {
	return g.Rebuild()
}

// Rebuild recomposes the spec from the current inputs, picking up a changed
// window preference or viewport class
func (g *Graph) Rebuild() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.disposed {
		return ErrDisposed
	}
	if g.series == nil {
		return nil
	}
	return g.rebuild()
}

// SetTemplate switches the layout variant, rebuilding when a series is present
func (g *Graph) SetTemplate(t models.TemplateVariant) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.disposed {
		return ErrDisposed
	}
	g.opts.Template = t
	if g.series == nil {
		return nil
	}
	return g.rebuild()
}

// Rendered marks the first frame as drawn
func (g *Graph) Rendered() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.loading = false
}

// Loading reports whether the chart is still waiting for its first frame
func (g *Graph) Loading() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.loading
}

// State returns a snapshot of the graph
func (g *Graph) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return State{
		Series:        append(models.Series(nil), g.series...),
		MovingAverage: g.ma,
		Spec:          g.spec.Clone(),
		HasSpec:       g.hasSpec,
		Mode:          g.mode,
		Window:        g.window(),
		Loading:       g.loading,
	}
}

// SaveChart exports the live chart for timespan
func (g *Graph) SaveChart(ctx context.Context, timespan string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.disposed {
		return "", ErrDisposed
	}
	if g.deps.Exporter == nil {
		return "", fmt.Errorf("export is not configured")
	}
	return g.deps.Exporter.ExportImage(ctx, g.deps.Instance, timespan)
}

// Dispose releases the rate unit subscription. It is idempotent.
func (g *Graph) Dispose() {
	g.mu.Lock()
	sub := g.sub
	g.sub = nil
	g.disposed = true
	g.mu.Unlock()

	if sub != nil {
		sub.Close()
	}
}

// window resolves the active time window key
func (g *Graph) window() string {
	if g.opts.WindowPreference != "" {
		return g.opts.WindowPreference
	}
	return g.deps.Prefs.GetValue(prefs.GraphWindowPreference)
}

// rebuild composes a fresh spec and applies it; callers hold g.mu
func (g *Graph) rebuild() error {
	spec, err := g.builder.Build(charts.Input{
		Series:           g.series,
		MovingAverage:    g.ma,
		Locale:           g.locale,
		WindowPreference: g.window(),
		Template:         g.opts.Template,
		RateUnits:        g.mode,
		Sizing:           g.opts.Sizing,
	})
	if err != nil {
		g.log.Warn("Skipping rebuild", map[string]interface{}{"reason": err.Error()})
		return err
	}

	g.spec = spec
	g.hasSpec = true
	g.deps.Instance.SetOption(spec)
	return nil
}
