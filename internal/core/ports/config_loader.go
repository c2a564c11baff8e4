package ports

import "go.trai.ch/lockaudit/internal/core/domain"

// ConfigLoader reads and persists the user configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load returns the configuration with defaults and environment overrides applied.
	// A missing file is not an error.
	Load() (*domain.Config, error)

	// SaveCredentials writes the OSS Index credentials to the config file,
	// keeping every other setting.
	SaveCredentials(username, token string) error

	// Path returns the config file location.
	Path() string
}
