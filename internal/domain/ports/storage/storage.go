package storage

import (
	"context"
	"io"
)

// StoredFile describes a file written to the store.
type StoredFile struct {
	// Path is the store-relative path persisted in the database.
	Path string
	// SizeBytes is the number of bytes written.
	SizeBytes int64
}

// FileStore is the port for document byte storage. Implementations generate
// their own storage keys; callers only keep the returned path.
type FileStore interface {
	Save(ctx context.Context, originalName string, r io.Reader) (StoredFile, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Remove(ctx context.Context, path string) error
}
