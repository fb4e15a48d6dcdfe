package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/sethvargo/go-envconfig"

	"txgraph/internal/charts"
	"txgraph/internal/models"
)

// Config holds all configuration for the incoming transactions chart service
type Config struct {
	// Server configuration
	Port string `env:"PORT,default=8982"`

	// Chart inputs
	Locale           string `env:"LOCALE,default=en-US"`
	ChartTemplate    string `env:"CHART_TEMPLATE,default=widget"`
	WindowPreference string `env:"WINDOW_PREFERENCE"`
	PreferencesFile  string `env:"PREFERENCES_FILE,default=./preferences.yaml"`
	RateUnits        string `env:"RATE_UNITS,default=vb"`
	SeriesFile       string `env:"SERIES_FILE,default=./series.json"`

	// Layout
	ViewportWidth float64 `env:"VIEWPORT_WIDTH,default=1280"`
	ChartHeight   string  `env:"CHART_HEIGHT,default=200"`
	ChartRight    string  `env:"CHART_RIGHT,default=10"`
	ChartTop      string  `env:"CHART_TOP,default=20"`
	ChartLeft     string  `env:"CHART_LEFT,default=0"`
	ChartWidth    int     `env:"CHART_WIDTH,default=800"`
	CanvasHeight  float64 `env:"CANVAS_HEIGHT,default=300"`

	// Export storage
	StorageMode  string `env:"STORAGE_MODE,default=local"`
	ExportDir    string `env:"EXPORT_DIR,default=./exports"`
	GCPProjectID string `env:"GCP_PROJECT_ID"`
	GCSBucket    string `env:"GCS_BUCKET"`

	// Service configuration
	Environment string `env:"ENVIRONMENT,default=development"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	LogFormat   string `env:"LOG_FORMAT,default=json"`
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith loads configuration through lookuper and validates it
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot check on its own
func (c *Config) Validate() error {
	if _, err := models.ParseTemplateVariant(c.ChartTemplate); err != nil {
		return fmt.Errorf("invalid CHART_TEMPLATE: %w", err)
	}
	if _, err := models.ParseRateUnitMode(c.RateUnits); err != nil {
		return fmt.Errorf("invalid RATE_UNITS: %w", err)
	}
	if _, err := c.Sizing(); err != nil {
		return err
	}
	if c.ViewportWidth <= 0 {
		return fmt.Errorf("invalid VIEWPORT_WIDTH: must be positive, got %v", c.ViewportWidth)
	}
	if c.CanvasHeight <= 0 {
		return fmt.Errorf("invalid CANVAS_HEIGHT: must be positive, got %v", c.CanvasHeight)
	}
	if c.ChartWidth <= 0 {
		return fmt.Errorf("invalid CHART_WIDTH: must be positive, got %d", c.ChartWidth)
	}

	switch strings.ToLower(c.StorageMode) {
	case "local":
		if c.ExportDir == "" {
			return fmt.Errorf("EXPORT_DIR is required for local storage")
		}
	case "gcs":
		if c.GCSBucket == "" {
			return fmt.Errorf("GCS_BUCKET is required for gcs storage")
		}
	default:
		return fmt.Errorf("invalid STORAGE_MODE %q: expected local or gcs", c.StorageMode)
	}
	return nil
}

// Template returns the parsed chart template
func (c *Config) Template() models.TemplateVariant {
	t, _ := models.ParseTemplateVariant(c.ChartTemplate)
	return t
}

// Units returns the parsed rate unit mode
func (c *Config) Units() models.RateUnitMode {
	m, _ := models.ParseRateUnitMode(c.RateUnits)
	return m
}

// Sizing returns the grid geometry
func (c *Config) Sizing() (charts.Sizing, error) {
	var s charts.Sizing
	for _, f := range []struct {
		name  string
		value string
		dst   *charts.Size
	}{
		{"CHART_HEIGHT", c.ChartHeight, &s.Height},
		{"CHART_RIGHT", c.ChartRight, &s.Right},
		{"CHART_TOP", c.ChartTop, &s.Top},
		{"CHART_LEFT", c.ChartLeft, &s.Left},
	} {
		size, err := charts.ParseSize(f.value)
		if err != nil {
			return charts.Sizing{}, fmt.Errorf("invalid %s: %w", f.name, err)
		}
		*f.dst = size
	}
	return s, nil
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}
