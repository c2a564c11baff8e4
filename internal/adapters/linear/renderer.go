// Package linear provides a synchronous, line-oriented progress renderer for
// terminals and CI logs.
package linear

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/lockaudit/internal/core/domain"
	"go.trai.ch/lockaudit/internal/ui/output"
	"go.trai.ch/lockaudit/internal/ui/style"
)

// Renderer implements ports.Renderer. It prints one line when the plan is
// known, one line per batch start and completion, and a closing line when
// the audit ends.
type Renderer struct {
	w      io.Writer
	output *termenv.Output

	mu     sync.Mutex
	plan   domain.AuditPlan
	failed int
}

// NewRenderer creates a new Renderer writing to w. A nil w means os.Stderr.
func NewRenderer(w io.Writer) *Renderer {
	if w == nil {
		w = os.Stderr
	}

	return &Renderer{
		w:      w,
		output: output.NewWithProfile(w, output.ColorProfileANSI),
	}
}

// Start is a no-op for the linear renderer.
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop resets the plan and failure count so the renderer can be reused.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.plan = domain.AuditPlan{}
	r.failed = 0
	return nil
}

// OnPlanEmit prints how the input splits into cache hits and remote batches.
func (r *Renderer) OnPlanEmit(plan domain.AuditPlan) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.plan = plan
	_, _ = fmt.Fprintf(r.w, "Auditing %d %s (%d cached, %d to fetch in %d %s)\n",
		plan.Total, plural(plan.Total, "dependency", "dependencies"),
		plan.CacheHits, plan.Uncached,
		plan.Batches, plural(plan.Batches, "batch", "batches"))
}

// OnBatchStart prints a start line for the batch.
func (r *Renderer) OnBatchStart(batch domain.BatchProgress) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintf(r.w, "%s Fetching %d %s...\n",
		r.prefix(batch), batch.Size, plural(batch.Size, "coordinate", "coordinates"))
}

// OnBatchComplete prints the batch result.
func (r *Renderer) OnBatchComplete(batch domain.BatchProgress, elapsed time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	elapsed = elapsed.Round(time.Millisecond)
	prefix := r.prefix(batch)

	if err != nil {
		r.failed++
		symbol := r.output.String(style.Cross).Foreground(termenv.ANSIRed).String()
		_, _ = fmt.Fprintf(r.w, "%s %s Failed after %v: %v\n", prefix, symbol, elapsed, err)
		return
	}

	symbol := r.output.String(style.Check).Foreground(termenv.ANSIGreen).String()
	_, _ = fmt.Fprintf(r.w, "%s %s Completed in %v\n", prefix, symbol, elapsed)
}

// OnAuditComplete prints the closing line. Nothing is printed when the whole
// input was served from the cache.
func (r *Renderer) OnAuditComplete(elapsed time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.plan.Batches == 0 {
		return
	}

	elapsed = elapsed.Round(time.Millisecond)
	if err != nil || r.failed > 0 {
		_, _ = fmt.Fprintf(r.w, "Remote lookup incomplete after %v\n", elapsed)
		return
	}
	_, _ = fmt.Fprintf(r.w, "Remote lookup finished in %v\n", elapsed)
}

func (r *Renderer) prefix(batch domain.BatchProgress) string {
	label := fmt.Sprintf("[batch %d/%d]", batch.Index, batch.Total)
	return r.output.String(label).Faint().String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
