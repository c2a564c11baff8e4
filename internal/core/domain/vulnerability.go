package domain

import "time"

// Vulnerability is a single advisory reported for a coordinate.
type Vulnerability struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	CVSSScore   float64 `json:"cvssScore"`
	CVSSVector  string  `json:"cvssVector,omitempty"`
	CVE         string  `json:"cve,omitempty"`
	Reference   string  `json:"reference,omitempty"`
}

// VulnerabilityRecord is the lookup result for one coordinate.
// The JSON shape matches a component-report element.
type VulnerabilityRecord struct {
	Coordinate      Coordinate      `json:"coordinates"`
	Description     string          `json:"description,omitempty"`
	Reference       string          `json:"reference,omitempty"`
	Vulnerabilities []Vulnerability `json:"vulnerabilities"`
}

// Vulnerable reports whether the record lists any vulnerability.
func (r VulnerabilityRecord) Vulnerable() bool {
	return len(r.Vulnerabilities) > 0
}

// MaxScore returns the highest CVSS score in the record, or 0.
func (r VulnerabilityRecord) MaxScore() float64 {
	var score float64
	for _, v := range r.Vulnerabilities {
		score = max(score, v.CVSSScore)
	}
	return score
}

// CacheEntry is a persisted record plus the time it was stored.
type CacheEntry struct {
	Record   VulnerabilityRecord `json:"record"`
	StoredAt time.Time           `json:"stored_at"`
}
