// Package blob abstracts durable storage of uploaded files. The service layer
// only sees a Save operation returning a retrievable location.
package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
)

// Store saves an uploaded file and returns the URL path it can later be
// fetched from.
type Store interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
}

// DiskStore writes uploads to a local directory served under a static URL
// prefix.
type DiskStore struct {
	dir       string
	urlPrefix string
}

var _ Store = (*DiskStore)(nil)

// NewDiskStore creates the upload directory if needed.
func NewDiskStore(dir, urlPrefix string) (*DiskStore, error) {
	if dir == "" {
		dir = "uploads"
	}
	if urlPrefix == "" {
		urlPrefix = "/uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{dir: dir, urlPrefix: urlPrefix}, nil
}

// Dir returns the directory uploads are written to.
func (s *DiskStore) Dir() string { return s.dir }

// Save stores the file under a generated name, keeping the original
// extension, and returns its URL path.
func (s *DiskStore) Save(_ context.Context, filename string, r io.Reader) (string, error) {
	name := uuid.NewString() + filepath.Ext(filepath.Base(filename))

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create blob file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write blob file: %w", err)
	}

	return path.Join(s.urlPrefix, name), nil
}
