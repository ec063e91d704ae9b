package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"separation-engine/internal/domain/document"
)

// LocalStore keeps documents under a base directory. Handles are the
// slash-separated object paths relative to that directory.
type LocalStore struct {
	baseDir string
	logger  *zap.Logger
}

var _ document.Store = (*LocalStore)(nil)

func NewLocalStore(baseDir string, logger *zap.Logger) *LocalStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalStore{baseDir: baseDir, logger: logger}
}

func (s *LocalStore) Put(_ context.Context, objectPath string, content []byte) (string, error) {
	full, err := s.resolve(objectPath)
	if err != nil {
		return "", err
	}

	parentDir := filepath.Dir(full)
	if err := os.MkdirAll(parentDir, 0o755); err != nil {
		s.logger.Error("Failed to create parent directories",
			zap.String("path", parentDir),
			zap.Error(err))
		return "", fmt.Errorf("failed to create directories: %w", err)
	}

	// write to a sibling temp file so readers never see a partial object
	tmp, err := os.CreateTemp(parentDir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		os.Remove(tmp.Name())
		s.logger.Error("Failed to write file",
			zap.String("path", full),
			zap.Error(err))
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	s.logger.Debug("File saved successfully",
		zap.String("path", full),
		zap.Int("size", len(content)))
	return objectPath, nil
}

func (s *LocalStore) Get(_ context.Context, handle string) ([]byte, error) {
	full, err := s.resolve(handle)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", document.ErrObjectNotFound, handle)
	}
	return b, err
}

// Delete is idempotent: a missing object is not an error.
func (s *LocalStore) Delete(_ context.Context, handle string) error {
	full, err := s.resolve(handle)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *LocalStore) resolve(objectPath string) (string, error) {
	if objectPath == "" || strings.HasPrefix(objectPath, "/") {
		return "", fmt.Errorf("invalid object path %q", objectPath)
	}
	full := filepath.Join(s.baseDir, filepath.FromSlash(objectPath))
	if err := s.ValidatePath(full); err != nil {
		return "", err
	}
	return full, nil
}

// ValidatePath checks that the path is safe and within baseDir
func (s *LocalStore) ValidatePath(fullPath string) error {
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base path: %w", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return fmt.Errorf("path escapes base directory: %s", fullPath)
	}
	return nil
}
