package domain

import (
	"fmt"

	"go.trai.ch/zerr"
)

var (
	// ErrTransport is returned when a remote lookup fails at the connection level
	// (refused, DNS, socket, timeout or cancellation).
	ErrTransport = zerr.New("remote transport failure")

	// ErrService is returned when the remote service answers with a non-2xx status.
	ErrService = zerr.New("remote service error")

	// ErrAuth is returned when the remote service rejects the configured credentials.
	ErrAuth = zerr.New("remote service rejected credentials")

	// ErrParse is returned when a remote response body is not well-formed.
	ErrParse = zerr.New("failed to parse remote response")

	// ErrInput is returned when a batch cannot be sent as given, for example
	// because it is empty, too large or holds a malformed coordinate.
	ErrInput = zerr.New("invalid lookup input")

	// ErrCacheCreateFailed is returned when the cache location cannot be created or opened.
	ErrCacheCreateFailed = zerr.New("failed to open vulnerability cache")

	// ErrCacheRead is returned when a cached record cannot be read or decoded.
	ErrCacheRead = zerr.New("failed to read cached record")

	// ErrCacheWrite is returned when a record cannot be persisted to the cache.
	ErrCacheWrite = zerr.New("failed to write cached record")

	// ErrCacheClear is returned when the cache cannot be wiped.
	ErrCacheClear = zerr.New("failed to clear vulnerability cache")

	// ErrUnknownCacheBackend is returned when the configured cache backend is not supported.
	ErrUnknownCacheBackend = zerr.New("unknown cache backend, expected 'file' or 'sqlite'")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigWriteFailed is returned when the config file cannot be written.
	ErrConfigWriteFailed = zerr.New("failed to write config file")

	// ErrInvalidConfig is returned when a config value is out of range.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrLockfileReadFailed is returned when the dependency lockfile cannot be read.
	ErrLockfileReadFailed = zerr.New("failed to read lockfile")

	// ErrLockfileParseFailed is returned when a lockfile line is not a valid coordinate or spec.
	ErrLockfileParseFailed = zerr.New("failed to parse lockfile")

	// ErrNoCoordinates is returned when a lockfile yields no dependency coordinates.
	ErrNoCoordinates = zerr.New("no dependency coordinates found")

	// ErrUnknownReportFormat is returned when the requested report format is not supported.
	ErrUnknownReportFormat = zerr.New("unknown report format, expected 'text', 'json' or 'cyclonedx'")

	// ErrReportWriteFailed is returned when a report cannot be written.
	ErrReportWriteFailed = zerr.New("failed to write report")

	// ErrMetricsWriteFailed is returned when the metrics textfile cannot be written.
	ErrMetricsWriteFailed = zerr.New("failed to write metrics file")

	// ErrAuditIncomplete is returned when the audit stopped before every
	// coordinate could be looked up.
	ErrAuditIncomplete = zerr.New("audit incomplete")

	// ErrVulnerabilitiesFound is returned when at least one audited dependency is vulnerable.
	ErrVulnerabilitiesFound = zerr.New("vulnerable dependencies found")
)

// ServiceError carries the status and body of a non-2xx remote response.
// It matches ErrService with errors.Is.
type ServiceError struct {
	StatusCode int
	Body       string
}

func (e *ServiceError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("remote service returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("remote service returned status %d: %s", e.StatusCode, e.Body)
}

// Unwrap classifies the error as ErrService.
func (e *ServiceError) Unwrap() error {
	return ErrService
}
