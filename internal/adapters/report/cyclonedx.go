package report

import (
	"errors"
	"io"
	"strings"
	"time"

	cdx "github.com/CycloneDX/cyclonedx-go"
	"github.com/google/uuid"
	"go.trai.ch/lockaudit/internal/build"
	"go.trai.ch/lockaudit/internal/core/domain"
)

// CycloneDXWriter renders the result as a CycloneDX JSON BOM with a
// vulnerabilities section.
type CycloneDXWriter struct {
	now    func() time.Time
	serial func() string
}

// CycloneDXOption configures a CycloneDXWriter.
type CycloneDXOption func(*CycloneDXWriter)

// WithClock sets the clock used for the metadata timestamp.
func WithClock(now func() time.Time) CycloneDXOption {
	return func(c *CycloneDXWriter) {
		c.now = now
	}
}

// WithSerial sets the generator for the BOM serial UUID.
func WithSerial(serial func() string) CycloneDXOption {
	return func(c *CycloneDXWriter) {
		c.serial = serial
	}
}

// NewCycloneDXWriter creates a CycloneDXWriter.
func NewCycloneDXWriter(opts ...CycloneDXOption) *CycloneDXWriter {
	c := &CycloneDXWriter{
		now:    time.Now,
		serial: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Write encodes one library component per record and one vulnerability
// entry per advisory, each pointing back at its component.
func (c *CycloneDXWriter) Write(w io.Writer, result *domain.AuditResult) error {
	bom := cdx.NewBOM()
	bom.SerialNumber = "urn:uuid:" + c.serial()
	bom.Metadata = &cdx.Metadata{
		Timestamp: c.now().UTC().Format(time.RFC3339),
		Tools: &cdx.ToolsChoice{
			Tools: &[]cdx.Tool{
				{
					Vendor:  domain.AppName,
					Name:    domain.AppName,
					Version: build.Version,
				},
			},
		},
	}

	components := make([]cdx.Component, 0, len(result.Records))
	var vulns []cdx.Vulnerability

	for _, rec := range result.Records {
		ref := rec.Record.Coordinate.String()
		name, version := splitCoordinate(ref)

		components = append(components, cdx.Component{
			BOMRef:     ref,
			Type:       cdx.ComponentTypeLibrary,
			Name:       name,
			Version:    version,
			PackageURL: ref,
		})

		for _, v := range rec.Record.Vulnerabilities {
			vulns = append(vulns, toVulnerability(ref, v))
		}
	}

	bom.Components = &components
	if len(vulns) > 0 {
		bom.Vulnerabilities = &vulns
	}

	enc := cdx.NewBOMEncoder(w, cdx.BOMFileFormatJSON)
	enc.SetPretty(true)
	if err := enc.Encode(bom); err != nil {
		return errors.Join(domain.ErrReportWriteFailed, err)
	}
	return nil
}

func toVulnerability(ref string, v domain.Vulnerability) cdx.Vulnerability {
	id := v.CVE
	if id == "" {
		id = v.ID
	}

	score := v.CVSSScore
	vuln := cdx.Vulnerability{
		BOMRef:      v.ID,
		ID:          id,
		Description: v.Description,
		Source: &cdx.Source{
			Name: "OSS Index",
			URL:  v.Reference,
		},
		Ratings: &[]cdx.VulnerabilityRating{
			{
				Score:    &score,
				Severity: severity(score),
				Method:   cdx.ScoringMethodCVSSv31,
				Vector:   v.CVSSVector,
			},
		},
		Affects: &[]cdx.Affects{{Ref: ref}},
	}
	if v.Title != "" {
		vuln.Detail = v.Title
	}
	return vuln
}

func severity(score float64) cdx.Severity {
	switch Severity(score) {
	case "critical":
		return cdx.SeverityCritical
	case "high":
		return cdx.SeverityHigh
	case "medium":
		return cdx.SeverityMedium
	case "low":
		return cdx.SeverityLow
	default:
		return cdx.SeverityNone
	}
}

// splitCoordinate extracts name and version from pkg:<type>/<namespace/name>@<version>.
func splitCoordinate(coord string) (string, string) {
	body := strings.TrimPrefix(coord, "pkg:")
	if _, after, ok := strings.Cut(body, "/"); ok {
		body = after
	}
	if i := strings.LastIndex(body, "@"); i >= 0 {
		return body[:i], body[i+1:]
	}
	return body, ""
}
