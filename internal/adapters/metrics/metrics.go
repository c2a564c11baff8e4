// Package metrics records audit and remote lookup metrics in a Prometheus
// registry and exports them in the node_exporter textfile format.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.trai.ch/lockaudit/internal/core/domain"
	"go.trai.ch/lockaudit/internal/core/ports"
	"go.trai.ch/zerr"
)

const namespace = "lockaudit"

// Lookup result labels.
const (
	ResultOK        = "ok"
	ResultInput     = "input"
	ResultAuth      = "auth"
	ResultService   = "service"
	ResultParse     = "parse"
	ResultTransport = "transport"
	ResultOther     = "other"
)

// Recorder holds the collectors of one process.
type Recorder struct {
	registry *prometheus.Registry

	LookupRequests *prometheus.CounterVec
	LookupDuration *prometheus.HistogramVec
	LookupBatch    prometheus.Histogram
	Coordinates    *prometheus.CounterVec
	Audits         *prometheus.CounterVec
	Vulnerable     prometheus.Gauge
	Warnings       prometheus.Counter
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{registry: prometheus.NewRegistry()}

	r.LookupRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookup_requests_total",
			Help:      "Remote component report requests by result.",
		},
		[]string{"result"},
	)

	r.LookupDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "lookup_duration_seconds",
			Help:      "Duration of remote component report requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"result"},
	)

	r.LookupBatch = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "lookup_batch_size",
			Help:      "Coordinates per remote request.",
			Buckets:   []float64{1, 8, 16, 32, 64, 96, 128},
		},
	)

	r.Coordinates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coordinates_total",
			Help:      "Audited coordinates by record source.",
		},
		[]string{"source"},
	)

	r.Audits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audits_total",
			Help:      "Audit runs by outcome.",
		},
		[]string{"outcome"},
	)

	r.Vulnerable = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "vulnerable_dependencies",
			Help:      "Vulnerable dependencies found by the last audit.",
		},
	)

	r.Warnings = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "warnings_total",
			Help:      "Non-fatal cache failures during audits.",
		},
	)

	r.registry.MustRegister(
		r.LookupRequests,
		r.LookupDuration,
		r.LookupBatch,
		r.Coordinates,
		r.Audits,
		r.Vulnerable,
		r.Warnings,
	)

	return r
}

// Registry returns the registry holding every collector.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveResult records the outcome of an audit run.
func (r *Recorder) ObserveResult(result *domain.AuditResult) {
	r.Audits.WithLabelValues(result.Outcome.String()).Inc()
	r.Vulnerable.Set(float64(result.Vulnerable()))
	r.Warnings.Add(float64(len(result.Warnings)))

	for _, rec := range result.Records {
		r.Coordinates.WithLabelValues(rec.Source.String()).Inc()
	}
}

// WriteTextfile writes the current values to path, replacing it atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return zerr.With(errors.Join(domain.ErrMetricsWriteFailed, err), "path", path)
	}
	return nil
}

// InstrumentLookup wraps next so every call is counted and timed.
func (r *Recorder) InstrumentLookup(next ports.LookupClient) ports.LookupClient {
	return &instrumentedClient{next: next, recorder: r}
}

type instrumentedClient struct {
	next     ports.LookupClient
	recorder *Recorder
}

func (c *instrumentedClient) Lookup(ctx context.Context, batch domain.Batch) ([]domain.VulnerabilityRecord, error) {
	start := time.Now()
	records, err := c.next.Lookup(ctx, batch)

	result := Classify(err)
	c.recorder.LookupRequests.WithLabelValues(result).Inc()
	c.recorder.LookupDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
	c.recorder.LookupBatch.Observe(float64(len(batch)))

	return records, err
}

// Classify maps a lookup error to its result label.
func Classify(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, domain.ErrInput):
		return ResultInput
	case errors.Is(err, domain.ErrAuth):
		return ResultAuth
	case errors.Is(err, domain.ErrService):
		return ResultService
	case errors.Is(err, domain.ErrParse):
		return ResultParse
	case errors.Is(err, domain.ErrTransport):
		return ResultTransport
	default:
		return ResultOther
	}
}
