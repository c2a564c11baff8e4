package metrics_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lockaudit/internal/adapters/metrics"
	"go.trai.ch/lockaudit/internal/core/domain"
	"go.trai.ch/lockaudit/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, metrics.ResultOK},
		{"input", errors.Join(domain.ErrInput, errors.New("empty batch")), metrics.ResultInput},
		{"auth", domain.ErrAuth, metrics.ResultAuth},
		{"service", &domain.ServiceError{StatusCode: 500}, metrics.ResultService},
		{"parse", errors.Join(domain.ErrParse, errors.New("bad json")), metrics.ResultParse},
		{"transport", errors.Join(domain.ErrTransport, context.Canceled), metrics.ResultTransport},
		{"other", errors.New("boom"), metrics.ResultOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, metrics.Classify(tt.err))
		})
	}
}

func TestInstrumentLookup(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockLookupClient(ctrl)

	batch := domain.Batch{"pkg:gem/rack@2.2.3", "pkg:gem/racc@1.7.1"}
	records := []domain.VulnerabilityRecord{{Coordinate: batch[0]}, {Coordinate: batch[1]}}

	gomock.InOrder(
		client.EXPECT().Lookup(gomock.Any(), batch).Return(records, nil),
		client.EXPECT().Lookup(gomock.Any(), batch).Return(nil, &domain.ServiceError{StatusCode: 503}),
	)

	r := metrics.NewRecorder()
	instrumented := r.InstrumentLookup(client)

	got, err := instrumented.Lookup(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, records, got)

	_, err = instrumented.Lookup(context.Background(), batch)
	require.ErrorIs(t, err, domain.ErrService)

	assert.InDelta(t, 1, testutil.ToFloat64(r.LookupRequests.WithLabelValues(metrics.ResultOK)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.LookupRequests.WithLabelValues(metrics.ResultService)), 0)
	assert.Equal(t, 2, testutil.CollectAndCount(r.LookupDuration))
}

func TestObserveResult(t *testing.T) {
	r := metrics.NewRecorder()

	r.ObserveResult(&domain.AuditResult{
		Records: []domain.AuditedRecord{
			{Source: domain.SourceCache, Record: domain.VulnerabilityRecord{Coordinate: "pkg:gem/rack@2.2.3"}},
			{Source: domain.SourceRemote, Record: domain.VulnerabilityRecord{
				Coordinate:      "pkg:gem/nokogiri@1.13.0",
				Vulnerabilities: []domain.Vulnerability{{ID: "abc"}},
			}},
			{Source: domain.SourceRemote, Record: domain.VulnerabilityRecord{Coordinate: "pkg:gem/racc@1.7.1"}},
		},
		Outcome:  domain.OutcomePartial,
		Warnings: []error{errors.New("cache write failed")},
	})

	assert.InDelta(t, 1, testutil.ToFloat64(r.Coordinates.WithLabelValues("cache")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(r.Coordinates.WithLabelValues("remote")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.Audits.WithLabelValues("partial")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.Vulnerable), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.Warnings), 0)
}

func TestWriteTextfile(t *testing.T) {
	r := metrics.NewRecorder()
	r.ObserveResult(&domain.AuditResult{Outcome: domain.OutcomeNoRemoteData})

	path := filepath.Join(t.TempDir(), "lockaudit.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `lockaudit_audits_total{outcome="no-remote-data"} 1`)
	assert.Contains(t, string(data), "lockaudit_vulnerable_dependencies 0")

	err = testutil.GatherAndCompare(r.Registry(), strings.NewReader(`
# HELP lockaudit_vulnerable_dependencies Vulnerable dependencies found by the last audit.
# TYPE lockaudit_vulnerable_dependencies gauge
lockaudit_vulnerable_dependencies 0
`), "lockaudit_vulnerable_dependencies")
	require.NoError(t, err)
}

func TestWriteTextfile_Failure(t *testing.T) {
	r := metrics.NewRecorder()

	err := r.WriteTextfile(filepath.Join(t.TempDir(), "missing", "lockaudit.prom"))
	require.ErrorIs(t, err, domain.ErrMetricsWriteFailed)
}
