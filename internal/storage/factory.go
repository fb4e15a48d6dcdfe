package storage

import (
	"context"
	"fmt"
	"strings"

	"txgraph/internal/config"
)

// DeploymentMode selects where exported files are kept
type DeploymentMode string

const (
	DeploymentLocal DeploymentMode = "local"
	DeploymentGCS   DeploymentMode = "gcs"
)

// ParseDeploymentMode parses a STORAGE_MODE value
func ParseDeploymentMode(s string) (DeploymentMode, error) {
	switch DeploymentMode(strings.ToLower(strings.TrimSpace(s))) {
	case DeploymentLocal, "":
		return DeploymentLocal, nil
	case DeploymentGCS:
		return DeploymentGCS, nil
	default:
		return "", fmt.Errorf("unsupported deployment mode: %s", s)
	}
}

// NewStorageClient creates a storage client based on deployment mode and configuration
func NewStorageClient(ctx context.Context, mode DeploymentMode, cfg *config.Config) (StorageClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("storage configuration is required")
	}

	switch mode {
	case DeploymentLocal:
		localClient, err := NewLocalStorageClient(cfg.ExportDir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage client: %w", err)
		}
		return localClient, nil

	case DeploymentGCS:
		gcsClient, err := NewGCSClient(ctx, cfg.GCSBucket)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize GCS client: %w", err)
		}
		return gcsClient, nil

	default:
		return nil, fmt.Errorf("unsupported deployment mode: %s", mode)
	}
}
