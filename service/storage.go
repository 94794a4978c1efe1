package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"
)

// Exporter mirrors downloaded files into an object storage bucket.
// Bucket drivers (gs://, s3://, file://, mem://) must be registered by the caller.
type Exporter struct {
	bucket *blob.Bucket
	prefix string
}

// NewExporter opens the bucket designated by uri
func NewExporter(ctx context.Context, uri string) (*Exporter, error) {
	bucket, err := blob.OpenBucket(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("NewExporter[%s]: %w", uri, err)
	}
	return &Exporter{bucket: bucket}, nil
}

// NewBucketExporter wraps an opened bucket, storing the objects under prefix
func NewBucketExporter(bucket *blob.Bucket, prefix string) *Exporter {
	return &Exporter{bucket: bucket, prefix: prefix}
}

// Key returns the object key of a file exported in the given subdirectory
func (e *Exporter) Key(dir, name string) string {
	return path.Join(e.prefix, dir, name)
}

// Export uploads localFile to key. An existing object is left untouched and Export returns false.
func (e *Exporter) Export(ctx context.Context, localFile, key string) (bool, error) {
	exists, err := e.bucket.Exists(ctx, key)
	if err != nil {
		return false, storageError(fmt.Errorf("Export.Exists[%s]: %w", key, err))
	}
	if exists {
		return false, nil
	}

	f, err := os.Open(localFile)
	if err != nil {
		return false, fmt.Errorf("Export.Open: %w", err)
	}
	defer f.Close()

	wctx, cancel := context.WithCancel(ctx)
	defer cancel()
	w, err := e.bucket.NewWriter(wctx, key, nil)
	if err != nil {
		return false, storageError(fmt.Errorf("Export.NewWriter[%s]: %w", key, err))
	}
	if _, err := io.Copy(w, f); err != nil {
		// cancelling the context aborts the upload
		cancel()
		w.Close()
		return false, storageError(fmt.Errorf("Export.Copy[%s]: %w", key, err))
	}
	if err := w.Close(); err != nil {
		return false, storageError(fmt.Errorf("Export.Close[%s]: %w", key, err))
	}
	return true, nil
}

// Close releases the bucket
func (e *Exporter) Close() error {
	return e.bucket.Close()
}

func storageError(err error) error {
	switch gcerrors.Code(err) {
	case gcerrors.ResourceExhausted, gcerrors.DeadlineExceeded, gcerrors.Internal:
		return MakeTemporary(err)
	}
	return err
}
