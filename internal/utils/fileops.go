package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir ensures a directory exists, creating it if necessary
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// AtomicFile is written under a temporary name and renamed into place on
// Commit, so readers never observe a partially written file
type AtomicFile struct {
	*os.File
	path string
}

// CreateAtomic creates the temporary file for path, creating directories as needed
func CreateAtomic(path string) (*AtomicFile, error) {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return nil, err
	}

	f, err := os.Create(path + ".tmp")
	if err != nil {
		return nil, err
	}
	return &AtomicFile{File: f, path: path}, nil
}

// Commit syncs, closes and renames the file into place
func (f *AtomicFile) Commit() error {
	if err := f.Sync(); err != nil {
		f.Abort()
		return err
	}
	if err := f.File.Close(); err != nil {
		os.Remove(f.Name())
		return err
	}
	if err := os.Rename(f.Name(), f.path); err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("failed to replace %s: %w", f.path, err)
	}
	return nil
}

// Abort closes and removes the temporary file
func (f *AtomicFile) Abort() {
	f.File.Close()
	os.Remove(f.Name())
}
