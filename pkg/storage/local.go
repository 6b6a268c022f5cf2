package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage implements Storage on the local filesystem. All writes
// are confined to the base directory; keys that resolve outside it are
// rejected. URLs are path-style: baseURL + key. The backend has no
// signing facility, so WithSigned is a no-op here and gating access to
// secure files is left to the serving layer.
type LocalStorage struct {
	baseDir string
	baseURL string
}

// NewLocal creates a local filesystem storage rooted at baseDir.
// The directory is created if it does not exist. baseURL is the URL
// prefix stored files are served under (e.g. "/uploads/").
func NewLocal(baseDir, baseURL string) (*LocalStorage, error) {
	if baseDir == "" {
		return nil, ErrInvalidConfig
	}

	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve base directory: %v", ErrInvalidConfig, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create base directory: %v", ErrInvalidConfig, err)
	}

	if baseURL == "" {
		baseURL = "/"
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return &LocalStorage{baseDir: abs, baseURL: baseURL}, nil
}

// Put writes data under key, creating intermediate directories.
// A partially written file is removed on error.
func (s *LocalStorage) Put(ctx context.Context, key string, data []byte, opts ...PutOption) (*PutResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrEmptyContent
	}

	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	return &PutResult{
		Key: key,
		URL: s.baseURL + key,
	}, nil
}

// URL returns the path-style URL for key.
func (s *LocalStorage) URL(_ context.Context, key string, _ ...URLOption) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	return s.baseURL + key, nil
}

// Delete removes the file for key. Missing files are not an error.
func (s *LocalStorage) Delete(_ context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	return nil
}

// resolve maps a key to an absolute path inside baseDir.
func (s *LocalStorage) resolve(key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	path := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if !strings.HasPrefix(path, s.baseDir+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q escapes base directory", ErrInvalidKey, key)
	}
	return path, nil
}
