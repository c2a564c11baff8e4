package ports

import "go.trai.ch/lockaudit/internal/core/domain"

// CoordinateSource extracts dependency coordinates from a lockfile.
//
//go:generate mockgen -source=source.go -destination=mocks/mock_source.go -package=mocks
type CoordinateSource interface {
	Read(path string) ([]domain.Coordinate, error)
}
