package cache

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// ErrNotEntry indicates the path does not hold a cache entry.
var ErrNotEntry = errors.New("not a cache entry")

// Store is the storage capability the cache writes entries through.
// Paths are the cache directory joined with the entry key.
type Store interface {
	// Name identifies the backend in metrics and logs.
	Name() string

	// Stat returns the entry's modification time.
	Stat(ctx context.Context, path string) (time.Time, error)

	// ReadFile returns the full entry body.
	ReadFile(ctx context.Context, path string) ([]byte, error)

	// MkdirAll creates dir and any missing parents. It is a no-op when dir exists.
	MkdirAll(ctx context.Context, dir string) error

	// WriteFile replaces the entry at path with data and stamps it with modTime.
	// Readers never observe a partially written entry.
	WriteFile(ctx context.Context, path string, data []byte, modTime time.Time) error
}

// FSStore keeps entries as plain files on an afero filesystem.
type FSStore struct {
	fs afero.Fs
}

// NewFSStore creates a store on fs. A nil fs selects the OS filesystem.
func NewFSStore(fs afero.Fs) *FSStore {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FSStore{fs: fs}
}

// Name implements Store.
func (s *FSStore) Name() string {
	return "fs"
}

// Stat implements Store. Directories are reported as ErrNotEntry.
func (s *FSStore) Stat(ctx context.Context, path string) (time.Time, error) {
	info, err := s.fs.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	if info.IsDir() {
		return time.Time{}, fmt.Errorf("%w: %s is a directory", ErrNotEntry, path)
	}
	return info.ModTime(), nil
}

// ReadFile implements Store.
func (s *FSStore) ReadFile(ctx context.Context, path string) ([]byte, error) {
	return afero.ReadFile(s.fs, path)
}

// MkdirAll implements Store.
func (s *FSStore) MkdirAll(ctx context.Context, dir string) error {
	return s.fs.MkdirAll(dir, 0o755)
}

// WriteFile implements Store via temp file + rename in the entry's directory.
func (s *FSStore) WriteFile(ctx context.Context, path string, data []byte, modTime time.Time) error {
	tempFile, err := afero.TempFile(s.fs, filepath.Dir(path), ".cache-*")
	if err != nil {
		return err
	}
	tempName := tempFile.Name()

	_, err = tempFile.Write(data)
	closeErr := tempFile.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil {
		err = s.fs.Chmod(tempName, 0o644)
	}
	if err != nil {
		s.fs.Remove(tempName)
		return err
	}

	if err := s.fs.Rename(tempName, path); err != nil {
		s.fs.Remove(tempName)
		return err
	}

	return s.fs.Chtimes(path, modTime, modTime)
}
