package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/chitram/chitram-backend/pkg/logger"
)

// LocalStorage keeps uploads on the local filesystem, served by the router
// under PublicBaseURL.
type LocalStorage struct {
	root    string
	baseURL string
}

func NewLocalStorage(root, baseURL string) (*LocalStorage, error) {
	for _, f := range []Folder{FolderProfiles, FolderArtworks, FolderApplications} {
		if err := os.MkdirAll(filepath.Join(root, string(f)), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create upload dir: %w", err)
		}
	}
	return &LocalStorage{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Root returns the directory holding the uploads.
func (s *LocalStorage) Root() string {
	return s.root
}

func (s *LocalStorage) Save(ctx context.Context, folder Folder, contentType string, body io.Reader) (string, error) {
	key := NewKey(folder, ExtensionFor(contentType))
	if err := s.write(key, body); err != nil {
		return "", err
	}
	logger.Debug("File stored", map[string]interface{}{"key": key})
	return key, nil
}

func (s *LocalStorage) write(key string, body io.Reader) error {
	f, err := os.OpenFile(s.path(key), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", key, err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(s.path(key))
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return f.Close()
}

func (s *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	if !validKey(key) {
		return false, nil
	}
	_, err := os.Stat(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", key, err)
	}
	return true, nil
}

func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	if !validKey(key) {
		return fmt.Errorf("%w: %q", ErrObjectNotFound, key)
	}
	err := os.Remove(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %q", ErrObjectNotFound, key)
	}
	return err
}

func (s *LocalStorage) Copy(ctx context.Context, srcKey string, dst Folder) (string, error) {
	if !validKey(srcKey) {
		return "", fmt.Errorf("%w: %q", ErrObjectNotFound, srcKey)
	}
	src, err := os.Open(s.path(srcKey))
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %q", ErrObjectNotFound, srcKey)
	}
	if err != nil {
		return "", err
	}
	defer src.Close()

	dstKey := NewKey(dst, path.Ext(srcKey))
	if err := s.write(dstKey, src); err != nil {
		return "", err
	}
	return dstKey, nil
}

func (s *LocalStorage) URL(key string) string {
	if key == "" {
		return ""
	}
	return s.baseURL + "/" + key
}

func (s *LocalStorage) path(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}
