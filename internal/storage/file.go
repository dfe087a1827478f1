package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileBlob keeps the blob in a single file on disk. Saves go through a
// temp file plus rename so a crash never leaves a half-written blob.
type FileBlob struct {
	path string
}

// NewFileBlob returns a file-backed blob at path. The parent directory is
// created on the first save.
func NewFileBlob(path string) *FileBlob {
	return &FileBlob{path: path}
}

// Load implements Blob.
func (b *FileBlob) Load(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoBlob
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", b.path, err)
	}
	if len(data) == 0 {
		return nil, ErrNoBlob
	}
	return data, nil
}

// Save implements Blob.
func (b *FileBlob) Save(_ context.Context, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return fmt.Errorf("storage: create dir for %s: %w", b.path, err)
	}
	tmp := b.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("storage: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, b.path); err != nil {
		return fmt.Errorf("storage: rename %s: %w", tmp, err)
	}
	return nil
}

// Close implements Blob.
func (b *FileBlob) Close() error { return nil }
