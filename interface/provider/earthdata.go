package provider

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/cavaliercoder/grab"
)

// DefaultChunkSize is the size of the buffer used to stream a file to disk
const DefaultChunkSize = 64 * 1024 * 1024

// EarthdataProvider downloads files from the NASA data centers.
// The http client is expected to carry the Earthdata authentication.
type EarthdataProvider struct {
	client    *http.Client
	chunkSize int
}

// NewEarthdataProvider creates a provider streaming files by chunks of chunkSize bytes
func NewEarthdataProvider(client *http.Client, chunkSize int) *EarthdataProvider {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &EarthdataProvider{client: client, chunkSize: chunkSize}
}

// Name implements FileProvider
func (p *EarthdataProvider) Name() string {
	return "Earthdata"
}

// Download implements FileProvider
func (p *EarthdataProvider) Download(ctx context.Context, url, localFile string) error {
	req, err := grab.NewRequest(localFile, url)
	if err != nil {
		return fmt.Errorf("Download.NewRequest: %w", err)
	}
	req = req.WithContext(ctx)
	req.NoResume = true
	req.BufferSize = p.chunkSize

	if err := download(ctx, p.client, req, p.Name()+":"+filepath.Base(localFile)); err != nil {
		return fmt.Errorf("Download.%w", err)
	}
	return nil
}
