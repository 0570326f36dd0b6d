package kv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
)

// ErrNotFound is returned by a Backend when nothing has been stored yet.
var ErrNotFound = errors.New("no stored value")

// Backend is the durable storage behind a Persistent store. Implementations
// hold one opaque payload per logical store.
type Backend interface {
	// Load returns the stored payload, or ErrNotFound when nothing was saved.
	Load(ctx context.Context) ([]byte, error)

	// Save replaces the stored payload.
	Save(ctx context.Context, data []byte) error
}

// FileBackend persists the payload to a single file on disk, the server-side
// analog of browser local storage.
type FileBackend struct {
	path string
}

// NewFileBackend creates a FileBackend writing to path. Parent directories
// are created on the first Save.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

func (f *FileBackend) Load(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (f *FileBackend) Save(_ context.Context, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	// Write-then-rename so a crash mid-write never leaves a torn payload.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
