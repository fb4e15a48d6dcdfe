package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"txgraph/internal/charts"
	"txgraph/internal/config"
	"txgraph/internal/export"
	"txgraph/internal/graph"
	"txgraph/internal/logger"
	"txgraph/internal/models"
	"txgraph/internal/prefs"
	"txgraph/internal/render"
	"txgraph/internal/reports"
	"txgraph/internal/server"
	"txgraph/internal/storage"
)

// Output formats of the render command
const (
	formatJSON    = "json"
	formatHTML    = "html"
	formatPreview = "preview"
	formatSVG     = render.TypeSVG
	formatPNG     = render.TypePNG
)

// cli holds the parsed flags and the loaded configuration
type cli struct {
	cfg *config.Config

	locale   string
	template string
	window   string
	units    string
	logLevel string

	seriesPath string
	output     string
	format     string
	timespan   string
	port       string
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "txgraph",
		Short:         "Incoming transactions chart",
		Long:          `txgraph smooths an incoming transaction throughput series and renders it as a chart option, an HTML page or an image export.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       config.GetVersion(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&c.locale, "locale", "", "Locale for labels (default: LOCALE)")
	root.PersistentFlags().StringVar(&c.template, "template", "", "Chart template: widget or advanced (default: CHART_TEMPLATE)")
	root.PersistentFlags().StringVar(&c.window, "window", "", "Time window key, e.g. 2h, 24h, 1w (default: stored preference)")
	root.PersistentFlags().StringVar(&c.units, "units", "", "Rate units: vb or wu (default: RATE_UNITS)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "Log level (default: LOG_LEVEL)")
	root.PersistentFlags().StringVarP(&c.seriesPath, "series", "s", "", "Series JSON file (default: SERIES_FILE)")

	root.AddCommand(c.renderCmd(), c.exportCmd(), c.serveCmd())
	return root
}

// load reads the environment configuration and applies flag overrides
func (c *cli) load(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	if c.locale != "" {
		cfg.Locale = c.locale
	}
	if c.template != "" {
		cfg.ChartTemplate = c.template
	}
	if c.window != "" {
		cfg.WindowPreference = c.window
	}
	if c.units != "" {
		cfg.RateUnits = c.units
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}
	if c.seriesPath != "" {
		cfg.SeriesFile = c.seriesPath
	}
	if c.port != "" {
		cfg.Port = c.port
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFormat); err != nil {
		return fmt.Errorf("invalid logging configuration: %w", err)
	}

	c.cfg = cfg
	return nil
}

// runGraph builds a graph over a fresh chart instance, feeds it the series
// file and hands both to fn
func (c *cli) runGraph(exporter *export.Exporter, fn func(*graph.Graph, *render.Instance) error) error {
	sizing, err := c.cfg.Sizing()
	if err != nil {
		return err
	}
	store, err := prefs.LoadYAMLStore(c.cfg.PreferencesFile)
	if err != nil {
		return err
	}
	series, err := readSeries(c.cfg.SeriesFile)
	if err != nil {
		return err
	}

	inst := render.NewInstance(c.cfg.ChartWidth, c.cfg.CanvasHeight)
	opts := graph.Options{
		Locale:           c.cfg.Locale,
		Template:         c.cfg.Template(),
		WindowPreference: c.cfg.WindowPreference,
		Sizing:           sizing,
		RateUnits:        c.cfg.Units(),
	}
	deps := graph.Deps{
		Prefs:    store,
		Viewport: charts.FixedWidth(c.cfg.ViewportWidth),
		Instance: inst,
		Exporter: exporter,
	}

	return graph.Run(opts, deps, func(g *graph.Graph) error {
		if err := g.OnData(series); err != nil {
			return err
		}
		g.Rendered()
		return fn(g, inst)
	})
}

func readSeries(path string) (models.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open series file: %w", err)
	}
	defer f.Close()
	return models.DecodeSeries(f)
}

// writeOutput writes data to path, or to w when path is empty
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := w.Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (c *cli) renderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the chart as option JSON, an HTML page, a preview page or an image",
		Example: `  txgraph render --series series.json --format html -o chart.html
  txgraph render --units wu --format svg -o chart.svg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(nil, func(g *graph.Graph, inst *render.Instance) error {
				data, err := c.renderState(g.State(), inst)
				if err != nil {
					return err
				}
				return writeOutput(cmd.OutOrStdout(), c.output, data)
			})
		},
	}
	cmd.Flags().StringVarP(&c.output, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVarP(&c.format, "format", "f", formatJSON, "Output format: json, html, preview, svg, png")
	return cmd
}

func (c *cli) renderState(state graph.State, inst *render.Instance) ([]byte, error) {
	switch strings.ToLower(c.format) {
	case formatJSON:
		data, err := json.MarshalIndent(state.Spec, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal chart option: %w", err)
		}
		return append(data, '\n'), nil

	case formatHTML:
		page, err := reports.NewPageBuilder().BuildPage(reports.PageData{
			Lang:          c.cfg.Locale,
			Spec:          state.Spec,
			Series:        state.Series,
			MovingAverage: state.MovingAverage,
			Mode:          state.Mode,
			Window:        state.Window,
		})
		if err != nil {
			return nil, err
		}
		return []byte(page), nil

	case formatPreview:
		page, err := charts.RenderPreview(state.Spec, reports.DefaultTitle)
		if err != nil {
			return nil, err
		}
		return []byte(page), nil

	case formatSVG, formatPNG:
		var buf bytes.Buffer
		opts := render.ImageOptions{PixelRatio: 1, Type: strings.ToLower(c.format)}
		if err := inst.Render(&buf, opts); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil

	default:
		return nil, fmt.Errorf("unknown output format %q", c.format)
	}
}

func (c *cli) exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the chart image to the configured storage",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			mode, err := storage.ParseDeploymentMode(c.cfg.StorageMode)
			if err != nil {
				return err
			}
			store, err := storage.NewStorageClient(ctx, mode, c.cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			exporter := export.NewExporter(export.NewStorageDownloader(store, ""))
			return c.runGraph(exporter, func(g *graph.Graph, _ *render.Instance) error {
				timespan := c.timespan
				if timespan == "" {
					timespan = g.State().Window
				}
				name, err := g.SaveChart(ctx, timespan)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), name)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&c.timespan, "timespan", "t", "", "Timespan used in the file name (default: current window)")
	return cmd
}

func (c *cli) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chart page and API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			srv, err := server.NewServer(ctx, c.cfg)
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}
			defer srv.Close()

			logger.Info("Starting txgraph", map[string]interface{}{
				"version":     config.GetVersion(),
				"port":        c.cfg.Port,
				"environment": c.cfg.Environment,
				"storage":     c.cfg.StorageMode,
			})
			return srv.ListenAndServe(ctx, ":"+c.cfg.Port)
		},
	}
	cmd.Flags().StringVarP(&c.port, "port", "p", "", "Listen port (default: PORT)")
	return cmd
}
