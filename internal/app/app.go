// Package app implements the application layer for lockaudit.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/lockaudit/internal/adapters/detector"
	"go.trai.ch/lockaudit/internal/adapters/linear"
	"go.trai.ch/lockaudit/internal/adapters/metrics"
	"go.trai.ch/lockaudit/internal/adapters/report"
	"go.trai.ch/lockaudit/internal/adapters/telemetry"
	"go.trai.ch/lockaudit/internal/core/domain"
	"go.trai.ch/lockaudit/internal/core/ports"
	"go.trai.ch/lockaudit/internal/engine/audit"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	config       *domain.Config
	store        ports.CacheStore
	client       ports.LookupClient
	source       ports.CoordinateSource
	logger       ports.Logger
	metrics      *metrics.Recorder

	stdout io.Writer
	stderr io.Writer
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	cfg *domain.Config,
	store ports.CacheStore,
	client ports.LookupClient,
	source ports.CoordinateSource,
	log ports.Logger,
	recorder *metrics.Recorder,
) *App {
	return &App{
		configLoader: loader,
		config:       cfg,
		store:        store,
		client:       client,
		source:       source,
		logger:       log,
		metrics:      recorder,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
	}
}

// WithOutput redirects reports and progress output.
// This is primarily used for testing.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// ConfigureLogging switches the logger to debug level and/or JSON output
// when the logger supports it.
func (a *App) ConfigureLogging(verbose, json bool) {
	if l, ok := a.logger.(interface{ SetJSON(bool) }); ok {
		l.SetJSON(json)
	}
	if l, ok := a.logger.(interface{ SetLevel(slog.Level) }); ok && verbose {
		l.SetLevel(slog.LevelDebug)
	}
}

// AuditOptions configures a single audit run.
type AuditOptions struct {
	// File is the lockfile to read, or "-" for stdin.
	File string
	// Format is one of report.FormatText, report.FormatJSON or report.FormatCycloneDX.
	Format string
	// Output is the report destination. Empty means stdout.
	Output string
	// Progress is "auto", "always" or "never".
	Progress string
	// Workers overrides the configured number of concurrent batches when positive.
	Workers int
	// BatchSize overrides the configured batch size when positive.
	BatchSize int
	// MetricsFile receives a Prometheus textfile export when set.
	MetricsFile string
}

// Audit reads the lockfile, audits every coordinate and writes the report.
//
// It returns domain.ErrAuditIncomplete when a remote batch failed, after the
// partial report has been written, and domain.ErrVulnerabilitiesFound when
// the audit completed and at least one dependency is vulnerable.
//
//nolint:cyclop // orchestration function
func (a *App) Audit(ctx context.Context, opts AuditOptions) error {
	writer, err := report.New(opts.Format)
	if err != nil {
		return err
	}

	coords, err := a.source.Read(opts.File)
	if err != nil {
		return zerr.Wrap(err, "failed to read dependencies")
	}

	runID := uuid.New().String()
	a.logger.Debug(fmt.Sprintf("run %s: %d coordinates from %s", runID, len(coords), opts.File))

	renderer := a.renderer(opts.Progress)

	var tracer ports.Tracer = telemetry.NewNoOpTracer()
	if renderer != nil {
		tp := setupOTel(telemetry.NewBridge(renderer))
		defer func() {
			_ = tp.Shutdown(context.WithoutCancel(ctx))
		}()
		tracer = telemetry.NewOTelTracerWithProvider(tp, domain.AppName).WithRenderer(renderer)

		if err := renderer.Start(ctx); err != nil {
			return err
		}
		defer func() {
			_ = renderer.Stop()
		}()
	}

	client := a.client
	if a.metrics != nil {
		client = a.metrics.InstrumentLookup(client)
	}

	engine := audit.NewEngine(a.store, client, tracer, a.logger,
		audit.WithBatchSize(firstPositive(opts.BatchSize, a.config.BatchSize)),
		audit.WithWorkers(firstPositive(opts.Workers, a.config.Workers)),
	)

	result, auditErr := engine.Audit(ctx, coords)

	if err := a.writeReport(writer, opts.Output, result); err != nil {
		return errors.Join(err, auditErr)
	}

	if a.metrics != nil {
		a.metrics.ObserveResult(result)
		if opts.MetricsFile != "" {
			if err := a.metrics.WriteTextfile(opts.MetricsFile); err != nil {
				return errors.Join(err, auditErr)
			}
		}
	}

	if auditErr != nil {
		missing := len(coords) - len(result.Records)
		return zerr.With(errors.Join(domain.ErrAuditIncomplete, auditErr), "missing", missing)
	}

	if n := result.Vulnerable(); n > 0 {
		return zerr.With(zerr.Wrap(domain.ErrVulnerabilitiesFound, "audit failed"), "vulnerable", n)
	}
	return nil
}

// renderer returns the progress renderer for mode, or nil when progress is hidden.
func (a *App) renderer(progress string) ports.Renderer {
	mode := detector.ResolveMode(detector.DetectEnvironment(), progress)
	if mode != detector.ModeShow {
		return nil
	}
	return linear.NewRenderer(a.stderr)
}

func (a *App) writeReport(writer ports.ReportWriter, output string, result *domain.AuditResult) error {
	if output == "" {
		return writer.Write(a.stdout, result)
	}

	// #nosec G304 -- the path is chosen by the user on the command line
	f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, domain.FilePerm)
	if err != nil {
		return zerr.With(errors.Join(domain.ErrReportWriteFailed, err), "path", output)
	}

	if err := writer.Write(f, result); err != nil {
		_ = f.Close()
		return zerr.With(err, "path", output)
	}
	if err := f.Close(); err != nil {
		return zerr.With(errors.Join(domain.ErrReportWriteFailed, err), "path", output)
	}

	a.logger.Info(fmt.Sprintf("report written to %s", output))
	return nil
}

// Clean removes every cached record.
func (a *App) Clean(ctx context.Context) error {
	if err := a.store.Clear(ctx); err != nil {
		return err
	}
	a.logger.Info(fmt.Sprintf("removed cached records from %s", a.config.Cache.Dir))
	return nil
}

// Close releases the cache store when it holds open resources.
func (a *App) Close() error {
	if closer, ok := a.store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Configure stores OSS Index credentials in the config file.
func (a *App) Configure(_ context.Context, username, token string) error {
	username = strings.TrimSpace(username)
	token = strings.TrimSpace(token)
	if username == "" || token == "" {
		return zerr.Wrap(domain.ErrInvalidConfig, "both username and token are required")
	}

	if err := a.configLoader.SaveCredentials(username, token); err != nil {
		return err
	}
	a.logger.Info(fmt.Sprintf("saved credentials to %s", a.configLoader.Path()))
	return nil
}

// ShowConfig prints the effective configuration with the token masked.
func (a *App) ShowConfig(w io.Writer) error {
	token := "(not set)"
	if a.config.Token != "" {
		token = "********"
	}
	username := a.config.Username
	if username == "" {
		username = "(not set)"
	}

	_, err := fmt.Fprintf(w,
		"config:     %s\nusername:   %s\ntoken:      %s\nbase_url:   %s\ntimeout:    %s\nbatch_size: %d\nworkers:    %d\ncache:      %s (%s)\n",
		a.configLoader.Path(), username, token, a.config.BaseURL, a.config.Timeout,
		a.config.BatchSize, a.config.Workers, a.config.Cache.Dir, a.config.Cache.Backend)
	return err
}

// setupOTel creates a tracer provider that reports every span to the bridge.
func setupOTel(bridge *telemetry.Bridge) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(bridge),
	)
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
