package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lockaudit/internal/adapters/logger"
)

func newTestHandler(t *testing.T, level slog.Leveler) (*logger.PrettyHandler, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	return logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: level}), buf
}

func TestPrettyHandler_Handle_Levels(t *testing.T) {
	tests := []struct {
		name       string
		level      slog.Level
		msg        string
		goldenName string
	}{
		{
			name:       "info level",
			level:      slog.LevelInfo,
			msg:        "information message",
			goldenName: "handler_info",
		},
		{
			name:       "warn level",
			level:      slog.LevelWarn,
			msg:        "warning message",
			goldenName: "handler_warn",
		},
		{
			name:       "error level",
			level:      slog.LevelError,
			msg:        "error message",
			goldenName: "handler_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, buf := newTestHandler(t, slog.LevelInfo)
			slog.New(handler).Log(t.Context(), tt.level, tt.msg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestPrettyHandler_DebugFiltered(t *testing.T) {
	handler, buf := newTestHandler(t, slog.LevelInfo)
	slog.New(handler).Debug("debug message")

	assert.Empty(t, buf.String())
}

func TestPrettyHandler_DebugEnabled(t *testing.T) {
	handler, buf := newTestHandler(t, slog.LevelDebug)
	slog.New(handler).Debug("partitioned 3 coordinates")

	assert.Equal(t, "● partitioned 3 coordinates\n", buf.String())
}

func TestPrettyHandler_SharedLevelVar(t *testing.T) {
	level := &slog.LevelVar{}
	handler, buf := newTestHandler(t, level)
	lg := slog.New(handler)

	lg.Debug("hidden")
	level.Set(slog.LevelDebug)
	lg.Debug("shown")

	assert.Equal(t, "● shown\n", buf.String())
}

func TestPrettyHandler_Attrs(t *testing.T) {
	tests := []struct {
		name  string
		setup func(h slog.Handler) slog.Handler
		msg   string
		attrs []any
		want  string
	}{
		{
			name:  "record attribute",
			setup: func(h slog.Handler) slog.Handler { return h },
			msg:   "cache miss",
			attrs: []any{"coordinate", "pkg:gem/rack@2.2.3"},
			want:  "cache miss coordinate=pkg:gem/rack@2.2.3\n",
		},
		{
			name:  "int and bool attributes",
			setup: func(h slog.Handler) slog.Handler { return h },
			msg:   "batch done",
			attrs: []any{"size", 128, "ok", true},
			want:  "batch done size=128 ok=true\n",
		},
		{
			name: "handler attrs precede record attrs",
			setup: func(h slog.Handler) slog.Handler {
				return h.WithAttrs([]slog.Attr{slog.String("hkey", "hval")})
			},
			msg:   "combined message",
			attrs: []any{"rkey", "rval"},
			want:  "combined message hkey=hval rkey=rval\n",
		},
		{
			name: "group qualifies keys",
			setup: func(h slog.Handler) slog.Handler {
				return h.WithGroup("req").WithAttrs([]slog.Attr{slog.String("id", "123")})
			},
			msg:   "grouped message",
			attrs: []any{"extra", "data"},
			want:  "grouped message req.id=123 req.extra=data\n",
		},
		{
			name: "nested groups join with dots",
			setup: func(h slog.Handler) slog.Handler {
				return h.WithGroup("a").WithGroup("b")
			},
			msg:   "nested message",
			attrs: []any{"k", "v"},
			want:  "nested message a.b.k=v\n",
		},
		{
			name: "empty group name is ignored",
			setup: func(h slog.Handler) slog.Handler {
				return h.WithGroup("")
			},
			msg:   "empty group",
			attrs: []any{"key", "val"},
			want:  "empty group key=val\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, buf := newTestHandler(t, slog.LevelInfo)
			slog.New(tt.setup(handler)).Info(tt.msg, tt.attrs...)

			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrettyHandler_Enabled(t *testing.T) {
	tests := []struct {
		name         string
		handlerLevel slog.Level
		recordLevel  slog.Level
		wantEnabled  bool
	}{
		{"debug below info", slog.LevelInfo, slog.LevelDebug, false},
		{"info at info", slog.LevelInfo, slog.LevelInfo, true},
		{"warn above info", slog.LevelInfo, slog.LevelWarn, true},
		{"debug at debug", slog.LevelDebug, slog.LevelDebug, true},
		{"warn at error", slog.LevelError, slog.LevelWarn, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := newTestHandler(t, tt.handlerLevel)
			assert.Equal(t, tt.wantEnabled, handler.Enabled(t.Context(), tt.recordLevel))
		})
	}
}

func TestPrettyHandler_NilWriter(t *testing.T) {
	require.NotPanics(t, func() {
		_ = logger.NewPrettyHandler(nil, nil)
	})
}

func TestPrettyHandler_Handle_ReturnsError(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	handler := logger.NewPrettyHandler(&brokenWriter{}, nil)
	lg := slog.New(handler)

	require.NotPanics(t, func() {
		lg.Info("this will fail to write")
	})
}

// brokenWriter simulates a writer that always returns an error.
type brokenWriter struct{}

func (bw *brokenWriter) Write([]byte) (int, error) {
	return 0, assert.AnError
}
