// internal/storage/file.go
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore mirrors a blob to a single JSON file. Used for single-node runs
// where no database mirror is configured.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Load() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read mirror file: %w", err)
	}
	return data, nil
}

func (f *FileStore) Save(data []byte) error {
	dir := filepath.Dir(f.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create mirror directory: %w", err)
		}
	}

	// Write-then-rename so a crash mid-write never corrupts the mirror.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write mirror file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace mirror file: %w", err)
	}
	return nil
}
