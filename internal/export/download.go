package export

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"txgraph/internal/storage"
)

// DecodeDataURL returns the media type and payload of a data URL
func DecodeDataURL(dataURL string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("data URL has no payload")
	}

	mediaType, isBase64 := strings.CutSuffix(meta, ";base64")
	if isBase64 {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return "", nil, fmt.Errorf("failed to decode data URL payload: %w", err)
		}
		return mediaType, data, nil
	}

	data, err := url.PathUnescape(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to unescape data URL payload: %w", err)
	}
	return mediaType, []byte(data), nil
}

// StorageDownloader delivers exports by writing them to a storage client
type StorageDownloader struct {
	client storage.StorageClient
	prefix string
}

// NewStorageDownloader stores exports under prefix in client
func NewStorageDownloader(client storage.StorageClient, prefix string) *StorageDownloader {
	return &StorageDownloader{client: client, prefix: prefix}
}

// Download decodes dataURL and stores it as filename
func (d *StorageDownloader) Download(ctx context.Context, dataURL, filename string) error {
	_, data, err := DecodeDataURL(dataURL)
	if err != nil {
		return err
	}
	name := filename
	if d.prefix != "" {
		name = strings.TrimSuffix(d.prefix, "/") + "/" + filename
	}
	if err := d.client.StoreFile(ctx, name, data); err != nil {
		return fmt.Errorf("failed to store %s: %w", name, err)
	}
	return nil
}

// DownloaderFunc adapts a function to the Downloader interface
type DownloaderFunc func(ctx context.Context, dataURL, filename string) error

// Download calls f
func (f DownloaderFunc) Download(ctx context.Context, dataURL, filename string) error {
	return f(ctx, dataURL, filename)
}
