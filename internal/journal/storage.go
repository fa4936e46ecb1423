package journal

import (
	"fmt"
	"os"
	"path/filepath"
)

// ImageStore defines the interface for image file operations
type ImageStore interface {
	// Stage writes uploaded image bytes under a temporary name and returns
	// the staged path
	Stage(originalFilename string, data []byte) (string, error)

	// Rename moves a staged image to its identifier-derived name, keeping
	// the original extension, and returns the final path
	Rename(stagedPath, identifier string) (string, error)

	// Get retrieves image bytes by path
	Get(path string) ([]byte, error)
}

// LocalImageStore implements the ImageStore interface using a single local
// directory.
type LocalImageStore struct {
	basePath string
}

// NewLocalImageStore creates a new LocalImageStore instance
func NewLocalImageStore(basePath string) (*LocalImageStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	return &LocalImageStore{basePath: basePath}, nil
}

// Stage writes data to temp_{originalFilename} in the storage directory
func (l *LocalImageStore) Stage(originalFilename string, data []byte) (string, error) {
	path := filepath.Join(l.basePath, "temp_"+filepath.Base(originalFilename))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing staged image: %w", err)
	}
	return path, nil
}

// Rename moves a staged image to {identifier}{ext} in the same directory.
// The identifier is reduced to its base name so a path separator in an
// edited merchant cannot move the image outside the storage directory.
// Nothing prevents two receipts from deriving the same identifier; when that
// happens the later rename overwrites the earlier image.
func (l *LocalImageStore) Rename(stagedPath, identifier string) (string, error) {
	finalPath := filepath.Join(filepath.Dir(stagedPath), filepath.Base(identifier)+filepath.Ext(stagedPath))
	if err := os.Rename(stagedPath, finalPath); err != nil {
		return "", fmt.Errorf("renaming image: %w", err)
	}
	return finalPath, nil
}

// Get retrieves image bytes from local storage
func (l *LocalImageStore) Get(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	return data, nil
}
