package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStorage writes images into a directory served by the HTTP server
// under a public prefix such as /uploads.
type LocalStorage struct {
	dir          string
	publicPrefix string
}

// NewLocalStorage creates a LocalStorage rooted at dir
func NewLocalStorage(dir, publicPrefix string) *LocalStorage {
	return &LocalStorage{
		dir:          dir,
		publicPrefix: "/" + strings.Trim(publicPrefix, "/"),
	}
}

// Put writes data to dir/name, creating dir if needed, and returns the
// site-relative URL of the file.
func (l *LocalStorage) Put(_ context.Context, name string, data []byte, _ string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(l.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return l.PublicURL(name), nil
}

// PublicURL returns the site-relative URL for name
func (l *LocalStorage) PublicURL(name string) string {
	return path.Join(l.publicPrefix, name)
}

func validateName(name string) error {
	if name == "" {
		return errors.New("file name is required")
	}
	if name != filepath.Base(name) || name == "." || name == ".." {
		return fmt.Errorf("invalid file name %q", name)
	}
	return nil
}
