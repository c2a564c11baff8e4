package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/lockaudit/internal/core/domain"
	"go.trai.ch/lockaudit/internal/core/ports"
)

// errLookupFailed stands in for a failed span that carries no description.
var errLookupFailed = errors.New("remote lookup failed")

// Bridge is an sdktrace.SpanProcessor that turns the engine's spans into
// renderer callbacks. The root audit span maps to OnAuditComplete and every
// span carrying batch attributes maps to OnBatchStart and OnBatchComplete.
// Other spans are ignored.
type Bridge struct {
	renderer ports.Renderer
}

// NewBridge returns a Bridge feeding renderer. A nil renderer makes it inert.
func NewBridge(renderer ports.Renderer) *Bridge {
	return &Bridge{renderer: renderer}
}

// OnStart announces batch spans.
func (b *Bridge) OnStart(_ context.Context, s sdktrace.ReadWriteSpan) {
	if b.renderer == nil {
		return
	}
	if batch, ok := batchProgress(s.Attributes()); ok {
		b.renderer.OnBatchStart(batch)
	}
}

// OnEnd reports batch results and the end of the audit.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.renderer == nil {
		return
	}

	elapsed := s.EndTime().Sub(s.StartTime())

	if batch, ok := batchProgress(s.Attributes()); ok {
		b.renderer.OnBatchComplete(batch, elapsed, spanError(s))
		return
	}
	if s.Name() == ports.SpanAudit && !s.Parent().IsValid() {
		b.renderer.OnAuditComplete(elapsed, spanError(s))
	}
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}

// batchProgress reads the batch attributes. A span without a positive
// batch index is not a batch.
func batchProgress(attrs []attribute.KeyValue) (domain.BatchProgress, bool) {
	var batch domain.BatchProgress
	for _, kv := range attrs {
		switch string(kv.Key) {
		case ports.AttrBatchIndex:
			batch.Index = int(kv.Value.AsInt64())
		case ports.AttrBatchTotal:
			batch.Total = int(kv.Value.AsInt64())
		case ports.AttrBatchSize:
			batch.Size = int(kv.Value.AsInt64())
		}
	}
	return batch, batch.Index > 0
}

func spanError(s sdktrace.ReadOnlySpan) error {
	status := s.Status()
	if status.Code != codes.Error {
		return nil
	}
	if status.Description == "" {
		return errLookupFailed
	}
	return errors.New(status.Description)
}
