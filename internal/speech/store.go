package speech

import (
	"fmt"
	"os"
	"path/filepath"
)

// BlobStore persists audio bytes under a name and returns a stable
// reference path clients can fetch.
type BlobStore interface {
	Put(name string, data []byte) (string, error)
}

// DirStore writes blobs into a local directory served as static files.
type DirStore struct {
	dir       string
	urlPrefix string
}

// NewDirStore creates the directory if needed and returns a DirStore whose
// references are urlPrefix + "/" + name.
func NewDirStore(dir, urlPrefix string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("speech: creating audio dir: %w", err)
	}
	return &DirStore{dir: dir, urlPrefix: urlPrefix}, nil
}

// Put implements BlobStore.
func (s *DirStore) Put(name string, data []byte) (string, error) {
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("speech: writing audio file: %w", err)
	}
	return s.urlPrefix + "/" + name, nil
}
