// Package cache implements the vulnerability record cache on the local filesystem.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/lockaudit/internal/core/domain"
	"go.trai.ch/zerr"
)

// FileStore implements ports.CacheStore using a file-per-coordinate strategy.
// Files are replaced atomically, so a crash mid-write leaves the previous entry intact.
type FileStore struct {
	dir string
	now func() time.Time
}

// NewFileStore creates a FileStore rooted at dir. The directory is created on first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{
		dir: filepath.Clean(dir),
		now: time.Now,
	}
}

// Get retrieves the cached entry for coord.
// A missing file, or a file holding a different coordinate, is a miss.
func (s *FileStore) Get(_ context.Context, coord domain.Coordinate) (*domain.CacheEntry, error) {
	filename := s.filename(coord)
	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(errors.Join(domain.ErrCacheRead, err), "coordinate", coord.String())
	}

	var entry domain.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, zerr.With(errors.Join(domain.ErrCacheRead, err), "coordinate", coord.String())
	}

	if entry.Record.Coordinate != coord {
		return nil, nil
	}

	return &entry, nil
}

// Put stores record, replacing any prior entry for its coordinate.
func (s *FileStore) Put(_ context.Context, record domain.VulnerabilityRecord) error {
	entry := domain.CacheEntry{
		Record:   record,
		StoredAt: s.now().UTC(),
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return zerr.With(errors.Join(domain.ErrCacheWrite, err), "coordinate", record.Coordinate.String())
	}

	if err := atomicWriteFile(s.filename(record.Coordinate), data); err != nil {
		return zerr.With(errors.Join(domain.ErrCacheWrite, err), "coordinate", record.Coordinate.String())
	}

	return nil
}

// Clear removes the cache directory and everything in it.
func (s *FileStore) Clear(_ context.Context) error {
	if err := os.RemoveAll(s.dir); err != nil {
		return zerr.With(errors.Join(domain.ErrCacheClear, err), "path", s.dir)
	}
	return nil
}

// Dir returns the directory holding the cache files.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) filename(coord domain.Coordinate) string {
	return filepath.Join(s.dir, fmt.Sprintf("%016x.json", xxhash.Sum64String(coord.String())))
}

// atomicWriteFile writes data to a file atomically by writing to a temp file and renaming it.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(dir, "record-*.json.tmp")
	if err != nil {
		return err
	}
	tmpName := tmpFile.Name()

	// Clean up temp file on error
	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return err
	}

	if err := tmpFile.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
