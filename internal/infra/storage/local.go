package storage

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"compta-billing-platform/internal/domain"
	ports "compta-billing-platform/internal/domain/ports/storage"
)

// LocalStore writes uploads under a root directory, fanned out by month so a
// single directory never accumulates every file. Keys are ULIDs, so stored
// names sort by upload time and never collide with user-chosen names.
type LocalStore struct {
	root string
}

var _ ports.FileStore = (*LocalStore)(nil)

// NewLocalStore creates the root directory if needed.
func NewLocalStore(root string) (*LocalStore, error) {
	if root == "" {
		return nil, domain.ErrInvalidArgument
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &LocalStore{root: root}, nil
}

func (s *LocalStore) Save(_ context.Context, originalName string, r io.Reader) (ports.StoredFile, error) {
	now := time.Now()
	key := ulid.MustNew(ulid.Timestamp(now), rand.Reader).String()
	ext := sanitizeExt(filepath.Ext(originalName))

	rel := filepath.Join(now.Format("2006-01"), key+ext)
	abs := filepath.Join(s.root, rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return ports.StoredFile{}, fmt.Errorf("create upload dir: %w", err)
	}

	f, err := os.OpenFile(abs, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return ports.StoredFile{}, fmt.Errorf("create upload file: %w", err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(abs)
		return ports.StoredFile{}, fmt.Errorf("write upload: %w", err)
	}
	return ports.StoredFile{Path: filepath.ToSlash(rel), SizeBytes: n}, nil
}

func (s *LocalStore) Open(_ context.Context, path string) (io.ReadCloser, error) {
	abs, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(abs)
	if os.IsNotExist(err) {
		return nil, domain.ErrNotFound
	}
	return f, err
}

func (s *LocalStore) Remove(_ context.Context, path string) error {
	abs, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// resolve rejects paths escaping the storage root.
func (s *LocalStore) resolve(rel string) (string, error) {
	abs := filepath.Join(s.root, filepath.FromSlash(rel))
	if !strings.HasPrefix(abs, filepath.Clean(s.root)+string(os.PathSeparator)) {
		return "", domain.ErrInvalidArgument
	}
	return abs, nil
}

// sanitizeExt keeps only short, plain extensions; everything else is dropped.
func sanitizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if len(ext) > 8 {
		return ""
	}
	for _, r := range ext[min(1, len(ext)):] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
