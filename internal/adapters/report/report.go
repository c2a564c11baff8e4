// Package report renders audit results as text, JSON or CycloneDX documents.
package report

import (
	"cmp"
	"slices"

	"go.trai.ch/lockaudit/internal/core/domain"
	"go.trai.ch/lockaudit/internal/core/ports"
	"go.trai.ch/zerr"
)

// Supported formats.
const (
	FormatText      = "text"
	FormatJSON      = "json"
	FormatCycloneDX = "cyclonedx"
)

// New returns the writer for format. An empty format means text.
func New(format string) (ports.ReportWriter, error) {
	switch format {
	case FormatText, "":
		return NewTextWriter(), nil
	case FormatJSON:
		return NewJSONWriter(), nil
	case FormatCycloneDX:
		return NewCycloneDXWriter(), nil
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownReportFormat, "cannot render report"), "format", format)
	}
}

// Severity names the CVSS v3 qualitative rating of score.
func Severity(score float64) string {
	switch {
	case score >= 9.0:
		return "critical"
	case score >= 7.0:
		return "high"
	case score >= 4.0:
		return "medium"
	case score > 0:
		return "low"
	default:
		return "none"
	}
}

// ordered returns the records with clean dependencies first and vulnerable
// ones last. Input order is kept within each group.
func ordered(records []domain.AuditedRecord) []domain.AuditedRecord {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b domain.AuditedRecord) int {
		return cmp.Compare(len(a.Record.Vulnerabilities), len(b.Record.Vulnerabilities))
	})
	return out
}
