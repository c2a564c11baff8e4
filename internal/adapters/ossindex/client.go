// Package ossindex implements the LookupClient port against the OSS Index component-report API.
package ossindex

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"go.trai.ch/lockaudit/internal/build"
	"go.trai.ch/lockaudit/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	componentReportPath = "/api/v3/component-report"
	maxErrorBodySize    = 64 << 10
)

// Client implements ports.LookupClient. It holds no session state and makes
// exactly one request per Lookup.
type Client struct {
	baseURL    string
	username   string
	token      string
	userAgent  string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root, e.g. for a mirror or a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimSuffix(u, "/")
		}
	}
}

// WithCredentials sets the OSS Index username and API token.
// They are only sent when both are non-empty.
func WithCredentials(username, token string) Option {
	return func(c *Client) {
		c.username = username
		c.token = token
	}
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a Client for the public OSS Index service.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:   domain.DefaultBaseURL,
		userAgent: UserAgent(),
		httpClient: &http.Client{
			Timeout: domain.DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UserAgent returns the client identifier sent with every request.
func UserAgent() string {
	return domain.AppName + "/" + build.Version
}

type componentReportRequest struct {
	Coordinates []string `json:"coordinates"`
}

// componentReport is one response element. Pointer fields tell a missing
// field apart from an empty one.
type componentReport struct {
	Coordinates     string                  `json:"coordinates"`
	Description     string                  `json:"description"`
	Reference       string                  `json:"reference"`
	Vulnerabilities *[]domain.Vulnerability `json:"vulnerabilities"`
}

// Lookup posts batch to the component-report endpoint and returns one record per coordinate.
func (c *Client) Lookup(ctx context.Context, batch domain.Batch) ([]domain.VulnerabilityRecord, error) {
	if err := validateBatch(batch); err != nil {
		return nil, err
	}

	payload := componentReportRequest{Coordinates: make([]string, len(batch))}
	for i, coord := range batch {
		payload.Coordinates[i] = coord.String()
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, lookupError(errors.Join(domain.ErrInput, err), batch)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+componentReportPath, bytes.NewReader(body))
	if err != nil {
		return nil, lookupError(errors.Join(domain.ErrInput, err), batch)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.hasCredentials() {
		req.SetBasicAuth(c.username, c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, lookupError(errors.Join(domain.ErrTransport, err), batch)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) && c.hasCredentials() {
		authErr := zerr.With(lookupError(domain.ErrAuth, batch), "status_code", resp.StatusCode)
		return nil, zerr.With(authErr, "username", c.username)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		svcErr := &domain.ServiceError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(errBody)),
		}
		return nil, zerr.With(lookupError(svcErr, batch), "status_code", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, lookupError(errors.Join(domain.ErrTransport, err), batch)
	}

	var reports []*componentReport
	if err := json.Unmarshal(data, &reports); err != nil {
		return nil, lookupError(errors.Join(domain.ErrParse, err), batch)
	}

	if len(reports) != len(batch) {
		mismatch := zerr.With(lookupError(domain.ErrParse, batch), "expected", len(batch))
		return nil, zerr.With(mismatch, "received", len(reports))
	}

	records := make([]domain.VulnerabilityRecord, len(reports))
	for i, rep := range reports {
		if rep == nil || rep.Coordinates == "" || rep.Vulnerabilities == nil {
			incomplete := zerr.With(lookupError(domain.ErrParse, batch), "element", i)
			return nil, zerr.With(incomplete, "coordinate", batch[i].String())
		}
		records[i] = domain.VulnerabilityRecord{
			Coordinate:      domain.Coordinate(rep.Coordinates),
			Description:     rep.Description,
			Reference:       rep.Reference,
			Vulnerabilities: *rep.Vulnerabilities,
		}
	}

	return records, nil
}

func (c *Client) hasCredentials() bool {
	return c.username != "" && c.token != ""
}

// validateBatch rejects input the service cannot answer before any request is sent.
func validateBatch(batch domain.Batch) error {
	if len(batch) == 0 {
		return lookupError(domain.ErrInput, batch)
	}
	if len(batch) > domain.MaxBatchSize {
		return zerr.With(lookupError(domain.ErrInput, batch), "max_batch_size", domain.MaxBatchSize)
	}
	for _, coord := range batch {
		if !validCoordinate(coord) {
			return zerr.With(lookupError(domain.ErrInput, batch), "coordinate", coord.String())
		}
	}
	return nil
}

// validCoordinate accepts package URLs of the form pkg:<type>/<name>.
func validCoordinate(coord domain.Coordinate) bool {
	rest, ok := strings.CutPrefix(coord.String(), "pkg:")
	if !ok {
		return false
	}
	typ, name, ok := strings.Cut(rest, "/")
	return ok && typ != "" && name != "" && !strings.ContainsAny(coord.String(), " \t\n")
}

func lookupError(err error, batch domain.Batch) error {
	return zerr.With(zerr.Wrap(err, "component report lookup failed"), "batch_size", len(batch))
}
