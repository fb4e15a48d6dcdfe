package export

import (
	"context"
	"errors"
	"testing"

	"txgraph/internal/storage"
)

func TestDecodeDataURL(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantType string
		wantData string
		wantErr  bool
	}{
		{"base64", "data:image/svg+xml;base64,PHN2Zz48L3N2Zz4=", "image/svg+xml", "<svg></svg>", false},
		{"escaped", "data:text/plain,hello%20world", "text/plain", "hello world", false},
		{"not a data url", "http://example.com/a.svg", "", "", true},
		{"no payload", "data:image/svg+xml;base64", "", "", true},
		{"bad base64", "data:image/png;base64,@@@", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mediaType, data, err := DecodeDataURL(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if mediaType != tt.wantType || string(data) != tt.wantData {
				t.Errorf("got %q %q, want %q %q", mediaType, data, tt.wantType, tt.wantData)
			}
		})
	}
}

func TestStorageDownloader(t *testing.T) {
	ctx := context.Background()
	client, _ := storage.NewLocalStorageClient(t.TempDir())

	d := NewStorageDownloader(client, "")
	if err := d.Download(ctx, "data:image/svg+xml;base64,PHN2Zz48L3N2Zz4=", "a.svg"); err != nil {
		t.Fatalf("Download: %v", err)
	}
	data, err := client.GetFile(ctx, "a.svg")
	if err != nil || string(data) != "<svg></svg>" {
		t.Errorf("GetFile = %q, %v", data, err)
	}

	if err := d.Download(ctx, "garbage", "b.svg"); err == nil {
		t.Errorf("expected error for invalid data URL")
	}
	if err := d.Download(ctx, "data:text/plain,x", "../escape.svg"); err == nil {
		t.Errorf("expected error for escaping name")
	}
}

func TestDownloaderFunc(t *testing.T) {
	want := errors.New("denied")
	var got string
	f := DownloaderFunc(func(ctx context.Context, dataURL, filename string) error {
		got = filename
		return want
	})
	if err := f.Download(context.Background(), "", "x.svg"); !errors.Is(err, want) || got != "x.svg" {
		t.Errorf("DownloaderFunc did not delegate")
	}
}
