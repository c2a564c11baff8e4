package cache

import (
	"time"

	"go.trai.ch/lockaudit/internal/core/domain"
)

// NewFileStoreWithClock creates a FileStore with a fixed clock for deterministic timestamps.
func NewFileStoreWithClock(dir string, now func() time.Time) *FileStore {
	s := NewFileStore(dir)
	s.now = now
	return s
}

// Filename exposes the on-disk location of a coordinate.
func (s *FileStore) Filename(coord domain.Coordinate) string {
	return s.filename(coord)
}
