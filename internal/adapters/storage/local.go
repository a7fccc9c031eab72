package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalStorage writes export output to the local file system
type LocalStorage struct{}

func NewLocalStorage() *LocalStorage {
	return &LocalStorage{}
}

// CreateContainer creates the directory and any missing parents
func (s *LocalStorage) CreateContainer(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.FromSlash(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

// WriteBinary writes data to path, replacing any existing file
func (s *LocalStorage) WriteBinary(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.FromSlash(path), data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// WriteText writes text to path, replacing any existing file
func (s *LocalStorage) WriteText(ctx context.Context, path string, text string) error {
	return s.WriteBinary(ctx, path, []byte(text))
}
