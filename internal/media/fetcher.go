// Package media retrieves photo attachments and encodes them for inline
// transport in a JSON payload.
package media

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/lifeapp/lifebot/internal/telegram"
)

// FileAPI is the subset of the Telegram client the fetcher needs.
type FileAPI interface {
	GetFile(ctx context.Context, fileID string) (*telegram.File, error)
	DownloadFile(ctx context.Context, filePath string) ([]byte, error)
}

// Fetcher downloads a photo by its opaque file reference and converts it to
// a base64 data URI.
type Fetcher struct {
	api     FileAPI
	maxSize int64
}

// Option configures the fetcher.
type Option func(*Fetcher)

// WithMaxSize caps the accepted photo size in bytes.
func WithMaxSize(maxSize int64) Option {
	return func(f *Fetcher) { f.maxSize = maxSize }
}

// NewFetcher creates a fetcher backed by the given file API.
func NewFetcher(api FileAPI, opts ...Option) *Fetcher {
	f := &Fetcher{
		api:     api,
		maxSize: 20 * 1024 * 1024, // matches the backend's inline image limit
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch resolves the file reference, downloads the bytes, and returns them
// as a data URI suitable for the imageBase64 submission field. The caller
// treats any error as "no image" and proceeds with a text-only submission.
func (f *Fetcher) Fetch(ctx context.Context, fileID string) (string, error) {
	file, err := f.api.GetFile(ctx, fileID)
	if err != nil {
		return "", fmt.Errorf("resolving file %s: %w", fileID, err)
	}
	if file.FileSize > f.maxSize {
		return "", fmt.Errorf("file %s too large: %d bytes (max %d)", fileID, file.FileSize, f.maxSize)
	}

	data, err := f.api.DownloadFile(ctx, file.FilePath)
	if err != nil {
		return "", fmt.Errorf("downloading file %s: %w", fileID, err)
	}
	if int64(len(data)) > f.maxSize {
		return "", fmt.Errorf("file %s too large: exceeds %d bytes", fileID, f.maxSize)
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	// Telegram photo attachments are always served as JPEG.
	return "data:image/jpeg;base64," + encoded, nil
}
