package provider

import (
	"context"
)

// FileProvider is the interface of a file download service
type FileProvider interface {
	// Download streams url to localFile
	// localFile is the path of the file to create. It is left partially written on failure.
	Download(ctx context.Context, url, localFile string) error

	// Name of the provider
	Name() string
}
