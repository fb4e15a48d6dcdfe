package config

import (
	"context"
	"strings"
	"testing"

	"github.com/sethvargo/go-envconfig"

	"txgraph/internal/charts"
	"txgraph/internal/models"
)

func TestLoadWith(t *testing.T) {
	tests := []struct {
		name        string
		envVars     map[string]string
		expectError string
		validate    func(*testing.T, *Config)
	}{
		{
			name:    "defaults",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				if cfg.Port != "8982" {
					t.Errorf("Expected default Port '8982', got '%s'", cfg.Port)
				}
				if cfg.Locale != "en-US" {
					t.Errorf("Expected default Locale 'en-US', got '%s'", cfg.Locale)
				}
				if cfg.Template() != models.TemplateWidget {
					t.Errorf("Expected widget template, got %s", cfg.Template())
				}
				if cfg.Units() != models.RateUnitsVB {
					t.Errorf("Expected vb units, got %s", cfg.Units())
				}
				if cfg.StorageMode != "local" || cfg.ExportDir != "./exports" {
					t.Errorf("Unexpected storage defaults %s %s", cfg.StorageMode, cfg.ExportDir)
				}
				if cfg.WindowPreference != "" {
					t.Errorf("Expected empty window override, got %q", cfg.WindowPreference)
				}
				s, err := cfg.Sizing()
				if err != nil {
					t.Fatalf("Sizing: %v", err)
				}
				if s != charts.DefaultSizing() {
					t.Errorf("Expected default sizing, got %+v", s)
				}
			},
		},
		{
			name: "custom values",
			envVars: map[string]string{
				"PORT":              "9000",
				"LOCALE":            "de-DE",
				"CHART_TEMPLATE":    "advanced",
				"WINDOW_PREFERENCE": "3d",
				"RATE_UNITS":        "wu",
				"CHART_HEIGHT":      "80%",
				"VIEWPORT_WIDTH":    "500",
				"STORAGE_MODE":      "gcs",
				"GCS_BUCKET":        "charts",
				"ENVIRONMENT":       "production",
			},
			validate: func(t *testing.T, cfg *Config) {
				if cfg.Port != "9000" {
					t.Errorf("Expected Port '9000', got '%s'", cfg.Port)
				}
				if cfg.Template() != models.TemplateAdvanced {
					t.Errorf("Expected advanced template, got %s", cfg.Template())
				}
				if cfg.Units() != models.RateUnitsWU {
					t.Errorf("Expected wu units, got %s", cfg.Units())
				}
				if cfg.WindowPreference != "3d" {
					t.Errorf("Expected window 3d, got %s", cfg.WindowPreference)
				}
				s, _ := cfg.Sizing()
				if !s.Height.IsPercent() || s.Height.Value() != 80 {
					t.Errorf("Expected 80%% height, got %s", s.Height)
				}
				if cfg.ViewportWidth != 500 {
					t.Errorf("Expected viewport 500, got %v", cfg.ViewportWidth)
				}
				if !cfg.IsProduction() {
					t.Errorf("Expected production environment")
				}
			},
		},
		{
			name:        "invalid template",
			envVars:     map[string]string{"CHART_TEMPLATE": "compact"},
			expectError: "CHART_TEMPLATE",
		},
		{
			name:        "invalid units",
			envVars:     map[string]string{"RATE_UNITS": "sats"},
			expectError: "RATE_UNITS",
		},
		{
			name:        "invalid height",
			envVars:     map[string]string{"CHART_HEIGHT": "tall"},
			expectError: "CHART_HEIGHT",
		},
		{
			name:        "gcs without bucket",
			envVars:     map[string]string{"STORAGE_MODE": "gcs"},
			expectError: "GCS_BUCKET",
		},
		{
			name:        "unknown storage mode",
			envVars:     map[string]string{"STORAGE_MODE": "s3"},
			expectError: "STORAGE_MODE",
		},
		{
			name:        "non numeric viewport",
			envVars:     map[string]string{"VIEWPORT_WIDTH": "wide"},
			expectError: "failed to process config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(tt.envVars))

			if tt.expectError != "" {
				if err == nil {
					t.Fatalf("Expected error containing %q, got nil", tt.expectError)
				}
				if !strings.Contains(err.Error(), tt.expectError) {
					t.Errorf("Expected error containing %q, got %v", tt.expectError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			tt.validate(t, cfg)
		})
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "7000")
	t.Setenv("RATE_UNITS", "weight")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "7000" {
		t.Errorf("Expected Port '7000', got '%s'", cfg.Port)
	}
	if cfg.Units() != models.RateUnitsWU {
		t.Errorf("Expected wu units, got %s", cfg.Units())
	}
}
