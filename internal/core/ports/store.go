package ports

import (
	"context"

	"go.trai.ch/lockaudit/internal/core/domain"
)

// CacheStore persists the last known vulnerability record per coordinate.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type CacheStore interface {
	// Get retrieves the cached entry for a coordinate.
	// Returns nil, nil if not found.
	Get(ctx context.Context, coord domain.Coordinate) (*domain.CacheEntry, error)

	// Put stores the record, replacing any prior entry for its coordinate.
	Put(ctx context.Context, record domain.VulnerabilityRecord) error

	// Clear removes every entry.
	Clear(ctx context.Context) error
}
