package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wb-go/wbf/zlog"
	"github.com/yokitheyo/mediacompressor/internal/config"
)

// localStorage keeps objects as files under basePath. Content types are
// stored next to the object in a ".content-type" sidecar.
type localStorage struct {
	basePath string
}

const contentTypeSuffix = ".content-type"

func NewLocalStorage(cfg *config.StorageConfig) (*localStorage, error) {
	if cfg.LocalPath == "" {
		return nil, fmt.Errorf("LocalPath is empty, set storage.local_path in config or env")
	}
	if err := os.MkdirAll(cfg.LocalPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &localStorage{basePath: cfg.LocalPath}, nil
}

func (s *localStorage) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if clean == "/" || strings.HasSuffix(clean, contentTypeSuffix) {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(s.basePath, clean), nil
}

func (s *localStorage) Fetch(ctx context.Context, key string) (io.ReadCloser, error) {
	fullPath, err := s.path(key)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
		}
		zlog.Logger.Error().Err(err).Str("path", fullPath).Msg("failed to open file")
		return nil, fmt.Errorf("open file %s: %w", fullPath, err)
	}
	return file, nil
}

func (s *localStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if r == nil {
		return fmt.Errorf("reader is nil")
	}
	fullPath, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("create dir for %s: %w", key, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(fullPath), ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", key, err)
	}
	defer os.Remove(tmp.Name())

	written, err := io.Copy(tmp, r)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		zlog.Logger.Error().Err(err).Str("path", fullPath).Msg("failed to write file")
		return fmt.Errorf("write file %s: %w", fullPath, err)
	}
	if size >= 0 && written != size {
		return fmt.Errorf("write file %s: wrote %d bytes, expected %d", fullPath, written, size)
	}

	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		return fmt.Errorf("rename into %s: %w", fullPath, err)
	}
	if err := os.WriteFile(fullPath+contentTypeSuffix, []byte(contentType), 0644); err != nil {
		return fmt.Errorf("write content type for %s: %w", key, err)
	}

	zlog.Logger.Debug().
		Str("path", fullPath).
		Str("content_type", contentType).
		Int64("bytes", written).
		Msg("file saved successfully")
	return nil
}

// ContentType returns the content type recorded by Put.
func (s *localStorage) ContentType(key string) (string, error) {
	fullPath, err := s.path(key)
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(fullPath + contentTypeSuffix)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrObjectNotFound, key)
		}
		return "", err
	}
	return string(b), nil
}
