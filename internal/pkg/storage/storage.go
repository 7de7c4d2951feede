package storage

import (
	"context"
	"io"
)

// FileStorage persists generated artifacts, currently payroll export
// spreadsheets. Paths are storage-relative keys, never absolute.
type FileStorage interface {
	// Upload writes the artifact and returns the stored key.
	Upload(ctx context.Context, content io.Reader, path string, contentType string) (string, error)

	// Download opens a stored artifact for reading. The caller closes it.
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// URL returns a client-reachable address for a stored artifact.
	URL(path string) string
}
