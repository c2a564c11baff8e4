package ports

import (
	"io"

	"go.trai.ch/lockaudit/internal/core/domain"
)

// ReportWriter renders an audit result.
type ReportWriter interface {
	Write(w io.Writer, result *domain.AuditResult) error
}
