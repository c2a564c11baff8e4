// Package sqlite implements the vulnerability record cache on a single SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.trai.ch/lockaudit/internal/core/domain"
	"go.trai.ch/zerr"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	coordinate TEXT PRIMARY KEY,
	record     TEXT NOT NULL,
	stored_at  TEXT NOT NULL
);
`

const upsert = `
INSERT INTO records (coordinate, record, stored_at) VALUES (?, ?, ?)
ON CONFLICT(coordinate) DO UPDATE SET record = excluded.record, stored_at = excluded.stored_at
`

var errStoredCoordinate = zerr.New("stored record belongs to a different coordinate")

// Store implements ports.CacheStore using SQLite.
// The database is opened lazily on first use and writes are serialized
// through a single connection.
type Store struct {
	path string
	now  func() time.Time

	once    sync.Once
	db      *sql.DB
	openErr error
}

// NewStore creates a Store backed by the database file at path.
func NewStore(path string) *Store {
	return &Store{
		path: filepath.Clean(path),
		now:  time.Now,
	}
}

// open creates the database and schema once. The schema statement ignores
// cancellation of ctx so a canceled first caller cannot poison the store.
func (s *Store) open(ctx context.Context) (*sql.DB, error) {
	s.once.Do(func() {
		if err := os.MkdirAll(filepath.Dir(s.path), domain.DirPerm); err != nil {
			s.openErr = zerr.With(errors.Join(domain.ErrCacheCreateFailed, err), "path", s.path)
			return
		}

		db, err := sql.Open("sqlite", s.path+"?_pragma=busy_timeout(5000)")
		if err != nil {
			s.openErr = zerr.With(errors.Join(domain.ErrCacheCreateFailed, err), "path", s.path)
			return
		}
		db.SetMaxOpenConns(1)

		if _, err := db.ExecContext(context.WithoutCancel(ctx), schema); err != nil {
			_ = db.Close()
			s.openErr = zerr.With(errors.Join(domain.ErrCacheCreateFailed, err), "path", s.path)
			return
		}
		s.db = db
	})
	return s.db, s.openErr
}

// Get retrieves the cached entry for coord. Returns nil, nil if not found.
func (s *Store) Get(ctx context.Context, coord domain.Coordinate) (*domain.CacheEntry, error) {
	db, err := s.open(ctx)
	if err != nil {
		return nil, errors.Join(domain.ErrCacheRead, err)
	}

	var raw, storedAt string
	row := db.QueryRowContext(ctx, `SELECT record, stored_at FROM records WHERE coordinate = ?`, coord.String())
	if err := row.Scan(&raw, &storedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, zerr.With(errors.Join(domain.ErrCacheRead, err), "coordinate", coord.String())
	}

	entry := domain.CacheEntry{}
	if err := json.Unmarshal([]byte(raw), &entry.Record); err != nil {
		return nil, zerr.With(errors.Join(domain.ErrCacheRead, err), "coordinate", coord.String())
	}
	if entry.Record.Coordinate != coord {
		mismatch := zerr.With(errors.Join(domain.ErrCacheRead, errStoredCoordinate), "coordinate", coord.String())
		return nil, zerr.With(mismatch, "stored", entry.Record.Coordinate.String())
	}
	entry.StoredAt, err = time.Parse(time.RFC3339Nano, storedAt)
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrCacheRead, err), "coordinate", coord.String())
	}

	return &entry, nil
}

// Put upserts record keyed by its coordinate.
func (s *Store) Put(ctx context.Context, record domain.VulnerabilityRecord) error {
	db, err := s.open(ctx)
	if err != nil {
		return errors.Join(domain.ErrCacheWrite, err)
	}

	data, err := json.Marshal(record)
	if err != nil {
		return zerr.With(errors.Join(domain.ErrCacheWrite, err), "coordinate", record.Coordinate.String())
	}

	storedAt := s.now().UTC().Format(time.RFC3339Nano)
	if _, err := db.ExecContext(ctx, upsert, record.Coordinate.String(), string(data), storedAt); err != nil {
		return zerr.With(errors.Join(domain.ErrCacheWrite, err), "coordinate", record.Coordinate.String())
	}

	return nil
}

// Clear deletes every record.
func (s *Store) Clear(ctx context.Context) error {
	db, err := s.open(ctx)
	if err != nil {
		return errors.Join(domain.ErrCacheClear, err)
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return zerr.With(errors.Join(domain.ErrCacheClear, err), "path", s.path)
	}
	return nil
}

// Close releases the database handle if it was opened.
// Use after Close is not supported.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
