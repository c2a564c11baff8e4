package sqlite

import (
	"context"
	"time"
)

// SetClock replaces the clock used for stored_at timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// Exec runs a raw statement against the database, opening it if needed.
func (s *Store) Exec(ctx context.Context, query string, args ...any) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, query, args...)
	return err
}
