package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"product-catalog/internal/catalog"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

type FileStore struct {
	path    string
	decoder decoder
	logger  *slog.Logger

	mu sync.Mutex
}

func NewFile(path string, strict bool, logger *slog.Logger) *FileStore {
	return &FileStore{
		path:    path,
		decoder: decoder{strict: strict, logger: logger, source: path},
		logger:  logger,
	}
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) LoadAll(_ context.Context) ([]catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("catalog file does not exist yet", "path", s.path)
			return []catalog.Product{}, nil
		}
		return s.decoder.readFailed(fmt.Errorf("read catalog file %q: %w", s.path, err))
	}

	return s.decoder.decode(data)
}

// SaveAll writes the collection to a temp file next to the target and renames
// it into place, so readers see either the old or the new document.
func (s *FileStore) SaveAll(_ context.Context, items []catalog.Product) error {
	data, err := encode(items)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("create catalog dir %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace catalog file %q: %w", s.path, err)
	}
	committed = true

	return nil
}

func (s *FileStore) Health() error {
	dir := filepath.Dir(s.path)
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// The directory is created on first save.
			return nil
		}
		return fmt.Errorf("stat catalog dir %q: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("catalog dir %q is not a directory", dir)
	}
	return nil
}
