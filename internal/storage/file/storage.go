package file

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Storage reads photos from and writes watermarked copies to the local filesystem.
type Storage struct {
	dirPerm  os.FileMode
	filePerm os.FileMode
}

// NewStorage creates a new Storage with the usual 0755/0644 permissions.
func NewStorage() *Storage {
	return &Storage{dirPerm: 0o755, filePerm: 0o644}
}

// EnsureDir creates dir and its parents if they do not exist yet.
func (s *Storage) EnsureDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("output path %s exists and is not a directory", dir)
		}
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat directory %s: %w", dir, err)
	}

	if err := os.MkdirAll(dir, s.dirPerm); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	return nil
}

// Save writes src to path, replacing any existing file. The data goes to a
// temporary file in the same directory first, so a failed write never
// leaves a truncated image behind. The directory must already exist.
func (s *Storage) Save(path string, src io.Reader) (string, error) {
	dir := filepath.Dir(path)
	tmpPath := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")

	dst, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, s.filePerm)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", path, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to save file %s: %w", path, err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to save file %s: %w", path, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to move file into place %s: %w", path, err)
	}

	return path, nil
}

// Load opens the file and returns a reader.
func (s *Storage) Load(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}

	return f, nil
}
