package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a stored file does not exist
var ErrNotFound = errors.New("file not found")

// FileInfo describes a stored file
type FileInfo struct {
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"contentType"`
	Updated     time.Time `json:"updated"`
}

// StorageClient defines the operations exported chart images need
type StorageClient interface {
	// Close releases the client
	Close() error

	// StoreFile writes data under name, replacing any previous content
	StoreFile(ctx context.Context, name string, data []byte) error

	// GetFile reads the file stored under name
	GetFile(ctx context.Context, name string) ([]byte, error)

	// FileExists reports whether name is stored
	FileExists(ctx context.Context, name string) (bool, error)

	// List returns stored files whose names start with prefix, newest first
	List(ctx context.Context, prefix string) ([]FileInfo, error)
}
