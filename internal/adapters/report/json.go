package report

import (
	"encoding/json"
	"errors"
	"io"

	"go.trai.ch/lockaudit/internal/core/domain"
)

// JSONWriter renders the result as a single JSON document.
type JSONWriter struct{}

// NewJSONWriter creates a JSONWriter.
func NewJSONWriter() *JSONWriter {
	return &JSONWriter{}
}

type jsonReport struct {
	Outcome  string       `json:"outcome"`
	Summary  jsonSummary  `json:"summary"`
	Records  []jsonRecord `json:"records"`
	Warnings []string     `json:"warnings,omitempty"`
}

type jsonSummary struct {
	Audited           int `json:"audited"`
	Vulnerable        int `json:"vulnerable"`
	CacheHits         int `json:"cache_hits"`
	BatchesDispatched int `json:"batches_dispatched"`
	BatchesSucceeded  int `json:"batches_succeeded"`
}

type jsonRecord struct {
	domain.VulnerabilityRecord
	Source string `json:"source"`
}

// Write encodes the result in input order.
func (j *JSONWriter) Write(w io.Writer, result *domain.AuditResult) error {
	doc := jsonReport{
		Outcome: result.Outcome.String(),
		Summary: jsonSummary{
			Audited:           len(result.Records),
			Vulnerable:        result.Vulnerable(),
			CacheHits:         result.CacheHits,
			BatchesDispatched: result.BatchesDispatched,
			BatchesSucceeded:  result.BatchesSucceeded,
		},
		Records: make([]jsonRecord, 0, len(result.Records)),
	}

	for _, rec := range result.Records {
		r := jsonRecord{VulnerabilityRecord: rec.Record, Source: rec.Source.String()}
		if r.Vulnerabilities == nil {
			r.Vulnerabilities = []domain.Vulnerability{}
		}
		doc.Records = append(doc.Records, r)
	}
	for _, warning := range result.Warnings {
		doc.Warnings = append(doc.Warnings, warning.Error())
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return errors.Join(domain.ErrReportWriteFailed, err)
	}
	return nil
}
