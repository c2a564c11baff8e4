package ports

import (
	"context"
	"time"

	"go.trai.ch/lockaudit/internal/core/domain"
)

// Renderer presents audit progress.
// It is fed from the tracer's span stream so the engine never writes to the terminal.
// Batch callbacks may arrive concurrently when batches are dispatched in parallel.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer.
	Start(ctx context.Context) error

	// Stop flushes any buffered output.
	Stop() error

	// OnPlanEmit is called once the engine has partitioned its input.
	OnPlanEmit(plan domain.AuditPlan)

	// OnBatchStart is called when a remote batch is dispatched.
	OnBatchStart(batch domain.BatchProgress)

	// OnBatchComplete is called when a remote batch returns.
	// err is nil if the lookup succeeded.
	OnBatchComplete(batch domain.BatchProgress, elapsed time.Duration, err error)

	// OnAuditComplete is called when the whole run ends.
	// err is nil unless a batch failed or the run was interrupted.
	OnAuditComplete(elapsed time.Duration, err error)
}
