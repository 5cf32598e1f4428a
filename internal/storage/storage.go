package storage

import (
	"context"
	"io"
)

// Storage is the file persistence collaborator for profile images.
type Storage interface {
	// Save stores a file at the given path, creating parent directories.
	Save(ctx context.Context, path string, reader io.Reader) error

	// Get opens a stored file for reading.
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a file; deleting a missing file is not an error.
	Delete(ctx context.Context, path string) error

	// Exists checks whether a file is present.
	Exists(ctx context.Context, path string) (bool, error)
}
