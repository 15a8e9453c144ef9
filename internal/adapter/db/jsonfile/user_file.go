package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"user-store-service/internal/domain/user"
)

// UserFile persists the whole user collection as one pretty-printed JSON array.
type UserFile struct {
	path string      // Location of the JSON file
	log  *zap.Logger // Structured logger for file operations
}

// NewUserFile creates a new instance of UserFile.
func NewUserFile(path string, log *zap.Logger) *UserFile {
	return &UserFile{path: path, log: log}
}

// Path returns the location of the backing file.
func (f *UserFile) Path() string {
	return f.path
}

// Load reads the persisted collection. A missing file is created holding an empty array.
func (f *UserFile) Load(ctx context.Context) ([]user.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		f.log.Info("user file not found, creating empty collection", zap.String("path", f.path))
		users := []user.User{}
		if err := f.Save(ctx, users); err != nil {
			return nil, err
		}
		return users, nil
	}
	if err != nil {
		f.log.Error("failed to read user file", zap.String("path", f.path), zap.Error(err))
		return nil, fmt.Errorf("failed to read user file: %w", err)
	}

	var users []user.User
	if err := json.Unmarshal(data, &users); err != nil {
		f.log.Error("failed to decode user file", zap.String("path", f.path), zap.Error(err))
		return nil, fmt.Errorf("failed to decode user file %s: %w", f.path, err)
	}
	if users == nil {
		users = []user.User{}
	}

	f.log.Info("user file loaded", zap.String("path", f.path), zap.Int("count", len(users)))
	return users, nil
}

// Save rewrites the file with the full collection.
// The data goes to a temporary sibling first and is renamed over the target.
func (f *UserFile) Save(ctx context.Context, users []user.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if users == nil {
		users = []user.User{}
	}

	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode users: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		f.log.Error("failed to create temp file", zap.String("dir", dir), zap.Error(err))
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write users: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		f.log.Error("failed to replace user file", zap.String("path", f.path), zap.Error(err))
		return fmt.Errorf("failed to replace user file: %w", err)
	}

	f.log.Debug("user file written", zap.String("path", f.path), zap.Int("count", len(users)))
	return nil
}
