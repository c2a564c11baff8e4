package logger_test

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lockaudit/internal/adapters/logger"
	"go.trai.ch/lockaudit/internal/core/domain"
	"go.trai.ch/zerr"
)

// newTestLogger creates a logger with an injected bytes.Buffer for isolated testing.
// It also sets NO_COLOR=1 to ensure deterministic output without ANSI escape codes.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New().(*logger.Logger)
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name string
		log  func(lg *logger.Logger)
		want string
	}{
		{
			name: "info",
			log:  func(lg *logger.Logger) { lg.Info("some message") },
			want: "some message\n",
		},
		{
			name: "warn",
			log:  func(lg *logger.Logger) { lg.Warn("cache entry unreadable") },
			want: "! cache entry unreadable\n",
		},
		{
			name: "debug hidden by default",
			log:  func(lg *logger.Logger) { lg.Debug("partitioned") },
			want: "",
		},
		{
			name: "multiline info",
			log:  func(lg *logger.Logger) { lg.Info("line1\nline2") },
			want: "line1\nline2\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			tt.log(lg)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestLogger_SetLevel(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.SetLevel(slog.LevelDebug)
	lg.Debug("partitioned 3 coordinates")
	assert.Equal(t, "● partitioned 3 coordinates\n", buf.String())

	buf.Reset()
	lg.SetLevel(slog.LevelError)
	lg.Warn("suppressed")
	assert.Empty(t, buf.String())
}

func TestLogger_SetLevelSurvivesOutputChange(t *testing.T) {
	lg, _ := newTestLogger(t)
	lg.SetLevel(slog.LevelDebug)

	buf := &bytes.Buffer{}
	lg.SetOutput(buf)
	lg.Debug("still visible")

	assert.Contains(t, buf.String(), "still visible")
}

func TestLogger_Error(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "standard error",
			err:  os.ErrPermission,
			want: "✗ Error: permission denied\n",
		},
		{
			name: "multiline error",
			err:  errors.New("yaml: unmarshal errors:\n  line 30: cannot unmarshal"),
			want: "✗ Error: yaml: unmarshal errors:\n         line 30: cannot unmarshal\n",
		},
		{
			name: "stdlib chain is not traversed",
			err: fmt.Errorf("failed to initialize service: %w",
				fmt.Errorf("failed to connect: %w", errors.New("connection refused"))),
			want: "✗ Error: failed to initialize service: failed to connect: connection refused\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Error(tt.err)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestLogger_Error_Golden(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		goldenName string
	}{
		{
			name: "three level chain",
			err: zerr.Wrap(
				zerr.Wrap(
					errors.New("database connection failed"),
					"failed to load user data",
				),
				"failed to process request",
			),
			goldenName: "error_chain_zerr_three",
		},
		{
			name: "metadata on main error",
			err: func() error {
				outer := zerr.Wrap(errors.New("connection refused"), "component report lookup failed")
				outer = zerr.With(outer, "batch", 2)
				outer = zerr.With(outer, "batch_size", 128)
				return outer
			}(),
			goldenName: "error_metadata_main",
		},
		{
			name: "joined sentinel with metadata",
			err: zerr.With(
				errors.Join(domain.ErrCacheRead, errors.New("unexpected end of JSON input")),
				"coordinate", "pkg:gem/rack@2.2.3",
			),
			goldenName: "error_joined_sentinel",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Error(tt.err)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_Error_Nil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)

	assert.Empty(t, buf.String(), "Expected no output for nil error")
}

func TestLogger_SetJSON_WithErrorChain(t *testing.T) {
	innerErr := errors.New("database connection failed")
	middleErr := zerr.Wrap(innerErr, "failed to load user data")
	outerErr := zerr.With(middleErr, "user_id", "12345")

	lg, buf := newTestLogger(t)
	lg.SetJSON(true)
	lg.Error(outerErr)

	output := buf.String()
	assert.Contains(t, output, `"error"`)
	assert.Contains(t, output, `"level":"ERROR"`)
	assert.Contains(t, output, "failed to load user data")
	assert.Contains(t, output, `"user_id":"12345"`)
	assert.NotContains(t, output, "✗", "JSON format should not have pretty markers")
}

func TestLogger_FormatSwitching(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Error(errors.New("error in pretty mode"))
	prettyOutput := buf.String()
	buf.Reset()

	lg.SetJSON(true)
	lg.Error(errors.New("error in json mode"))
	jsonOutput := buf.String()
	buf.Reset()

	lg.SetJSON(false)
	lg.Error(errors.New("error back in pretty mode"))
	backToPrettyOutput := buf.String()

	assert.Contains(t, prettyOutput, "✗")
	assert.NotContains(t, prettyOutput, `"error"`)

	assert.Contains(t, jsonOutput, `"error"`)
	assert.NotContains(t, jsonOutput, "✗")

	assert.Contains(t, backToPrettyOutput, "✗")
	assert.NotContains(t, backToPrettyOutput, `"error"`)
}

func TestLogger_SetOutput_Nil(t *testing.T) {
	require.NotPanics(t, func() {
		lg := logger.New().(*logger.Logger)
		lg.SetOutput(nil)
	})
}

func TestLogger_ConcurrentAccess(t *testing.T) {
	lg, _ := newTestLogger(t)

	var wg sync.WaitGroup
	ops := []func(){
		func() { lg.Info("concurrent info") },
		func() { lg.Warn("concurrent warn") },
		func() { lg.Debug("concurrent debug") },
		func() { lg.Error(errors.New("concurrent error")) },
		func() { lg.SetJSON(true) },
		func() { lg.SetJSON(false) },
		func() { lg.SetLevel(slog.LevelDebug) },
		func() { lg.SetOutput(&bytes.Buffer{}) },
	}
	for _, op := range ops {
		wg.Go(op)
	}
	wg.Wait()
}
