package ports

import (
	"context"

	"go.trai.ch/lockaudit/internal/core/domain"
)

// LookupClient queries the remote vulnerability service.
//
//go:generate mockgen -source=lookup.go -destination=mocks/mock_lookup.go -package=mocks
type LookupClient interface {
	// Lookup sends one batch and returns one record per coordinate, in batch order.
	// Failures match one of domain.ErrTransport, domain.ErrService, domain.ErrAuth,
	// domain.ErrParse or domain.ErrInput.
	Lookup(ctx context.Context, batch domain.Batch) ([]domain.VulnerabilityRecord, error)
}
