// Package audit implements the coordinate audit engine: it partitions input
// coordinates into cache hits and misses, looks the misses up remotely in
// bounded batches, writes fresh records back and merges everything in input order.
package audit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.trai.ch/lockaudit/internal/core/domain"
	"go.trai.ch/lockaudit/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Engine orchestrates a Cache Store and a Remote Lookup Client.
type Engine struct {
	store  ports.CacheStore
	client ports.LookupClient
	tracer ports.Tracer
	logger ports.Logger

	batchSize int
	workers   int
}

// Option configures an Engine.
type Option func(*Engine)

// WithBatchSize sets the number of coordinates per remote call.
// Values outside (0, domain.MaxBatchSize] fall back to domain.MaxBatchSize.
func WithBatchSize(n int) Option {
	return func(e *Engine) {
		e.batchSize = n
	}
}

// WithWorkers sets how many batches may be in flight at once.
// The default of 1 dispatches batches sequentially.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// NewEngine creates an Engine with the given collaborators.
func NewEngine(
	store ports.CacheStore,
	client ports.LookupClient,
	tracer ports.Tracer,
	logger ports.Logger,
	opts ...Option,
) *Engine {
	e := &Engine{
		store:     store,
		client:    client,
		tracer:    tracer,
		logger:    logger,
		batchSize: domain.MaxBatchSize,
		workers:   domain.DefaultWorkers,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// batchResult is the outcome of one remote call.
type batchResult struct {
	index   int
	records []domain.VulnerabilityRecord
	err     error
}

// run carries the mutable state of a single Audit call.
type run struct {
	coords []domain.Coordinate
	slots  []*domain.AuditedRecord

	uncached    []domain.Coordinate
	uncachedIdx []int
	batches     []domain.Batch
	offsets     []int

	mu         sync.Mutex
	warnings   []error
	dispatched int
	succeeded  int
}

// Audit looks up every coordinate, from the cache where possible.
//
// The returned result is never nil. When a batch fails, dispatch stops,
// the error is returned and the result holds the cache hits plus every batch
// that had already succeeded, with Outcome set to domain.OutcomePartial.
func (e *Engine) Audit(ctx context.Context, coords []domain.Coordinate) (*domain.AuditResult, error) {
	if len(coords) == 0 {
		return &domain.AuditResult{Outcome: domain.OutcomeNoRemoteData}, nil
	}

	ctx, span := e.tracer.Start(ctx, ports.SpanAudit)
	defer span.End()

	r := &run{
		coords: coords,
		slots:  make([]*domain.AuditedRecord, len(coords)),
	}

	hits := e.partition(ctx, r)

	r.batches = domain.SplitBatches(r.uncached, e.batchSize)
	r.offsets = make([]int, len(r.batches))
	offset := 0
	for i, b := range r.batches {
		r.offsets[i] = offset
		offset += len(b)
	}

	plan := domain.AuditPlan{
		Total:     len(coords),
		CacheHits: hits,
		Uncached:  len(r.uncached),
		Batches:   len(r.batches),
	}
	span.SetAttribute("audit.coordinates", plan.Total)
	span.SetAttribute("audit.cache_hits", plan.CacheHits)
	span.SetAttribute("audit.batches", plan.Batches)
	e.tracer.EmitPlan(ctx, plan)
	e.logger.Debug(fmt.Sprintf("audit plan: %d coordinates, %d cached, %d to fetch in %d batch(es)",
		plan.Total, plan.CacheHits, plan.Uncached, plan.Batches))

	if len(r.batches) == 0 {
		return r.result(domain.OutcomeNoRemoteData, hits), nil
	}

	var err error
	if e.workers > 1 && len(r.batches) > 1 {
		err = e.dispatchConcurrent(ctx, r)
	} else {
		err = e.dispatchSequential(ctx, r)
	}

	if err != nil {
		span.RecordError(err)
		return r.result(domain.OutcomePartial, hits), err
	}
	return r.result(domain.OutcomeComplete, hits), nil
}

// partition splits coordinates into cache hits and misses, preserving order.
// A cache read failure counts as a miss and is kept as a warning.
func (e *Engine) partition(ctx context.Context, r *run) int {
	hits := 0
	for i, coord := range r.coords {
		entry, err := e.store.Get(ctx, coord)
		if err != nil {
			e.warn(r, zerr.With(zerr.Wrap(err, "cache read failed, fetching remotely"), "coordinate", coord.String()))
		}
		if err == nil && entry != nil {
			r.slots[i] = &domain.AuditedRecord{Record: entry.Record, Source: domain.SourceCache}
			hits++
			continue
		}
		r.uncached = append(r.uncached, coord)
		r.uncachedIdx = append(r.uncachedIdx, i)
	}
	return hits
}

// dispatchSequential folds over the batches and stops on the first failure.
func (e *Engine) dispatchSequential(ctx context.Context, r *run) error {
	for i := range r.batches {
		if err := ctx.Err(); err != nil {
			return interrupted(err, i, len(r.batches))
		}

		res := e.lookup(ctx, r, i)
		if res.err != nil {
			return res.err
		}
		e.absorb(ctx, r, res)
	}
	return nil
}

// dispatchConcurrent runs up to e.workers batches at once. Once a batch fails
// no further batch is started; batches already in flight are allowed to finish
// and their records are kept. The failure with the lowest batch index is returned.
func (e *Engine) dispatchConcurrent(ctx context.Context, r *run) error {
	var (
		g       errgroup.Group
		stopped atomic.Bool
		errMu   sync.Mutex
		first   = -1
		failure error
	)
	g.SetLimit(e.workers)

	fail := func(index int, err error) {
		stopped.Store(true)
		errMu.Lock()
		defer errMu.Unlock()
		if first == -1 || index < first {
			first = index
			failure = err
		}
	}

	for i := range r.batches {
		if stopped.Load() {
			break
		}
		if err := ctx.Err(); err != nil {
			fail(i, interrupted(err, i, len(r.batches)))
			break
		}

		g.Go(func() error {
			if stopped.Load() {
				return nil
			}
			res := e.lookup(ctx, r, i)
			if res.err != nil {
				fail(res.index, res.err)
				return nil
			}
			e.absorb(ctx, r, res)
			return nil
		})
	}

	_ = g.Wait()
	return failure
}

// lookup sends batch i inside its own span.
func (e *Engine) lookup(ctx context.Context, r *run, i int) batchResult {
	batch := r.batches[i]
	total := len(r.batches)

	ctx, span := e.tracer.Start(ctx, fmt.Sprintf("batch %d/%d", i+1, total),
		ports.WithAttribute(ports.AttrBatchIndex, i+1),
		ports.WithAttribute(ports.AttrBatchTotal, total),
		ports.WithAttribute(ports.AttrBatchSize, len(batch)),
	)
	defer span.End()

	r.mu.Lock()
	r.dispatched++
	r.mu.Unlock()

	records, err := e.client.Lookup(ctx, batch)
	if err == nil && len(records) != len(batch) {
		err = zerr.Wrap(domain.ErrParse, "lookup returned a different number of records")
		err = zerr.With(zerr.With(err, "expected", len(batch)), "received", len(records))
	}
	if err != nil {
		err = zerr.With(zerr.With(err, "batch", i+1), "batches", total)
		span.RecordError(err)
		return batchResult{index: i, err: err}
	}

	r.mu.Lock()
	r.succeeded++
	r.mu.Unlock()
	return batchResult{index: i, records: records}
}

// absorb associates a batch's records with its coordinates by position,
// stores them and writes them back to the cache.
func (e *Engine) absorb(ctx context.Context, r *run, res batchResult) {
	batch := r.batches[res.index]
	offset := r.offsets[res.index]

	for j, rec := range res.records {
		coord := batch[j]
		if rec.Coordinate != coord {
			e.logger.Debug(fmt.Sprintf("remote answered %q for %q", rec.Coordinate, coord))
			rec.Coordinate = coord
		}

		if err := e.store.Put(ctx, rec); err != nil {
			e.warn(r, zerr.With(zerr.Wrap(err, "cache write failed"), "coordinate", coord.String()))
		}

		r.slots[r.uncachedIdx[offset+j]] = &domain.AuditedRecord{Record: rec, Source: domain.SourceRemote}
	}
}

func (e *Engine) warn(r *run, err error) {
	e.logger.Warn(err.Error())
	r.mu.Lock()
	r.warnings = append(r.warnings, err)
	r.mu.Unlock()
}

// result assembles the records in input order, skipping coordinates that were never fetched.
func (r *run) result(outcome domain.Outcome, hits int) *domain.AuditResult {
	records := make([]domain.AuditedRecord, 0, len(r.slots))
	for _, slot := range r.slots {
		if slot != nil {
			records = append(records, *slot)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return &domain.AuditResult{
		Records:           records,
		Outcome:           outcome,
		Warnings:          r.warnings,
		CacheHits:         hits,
		BatchesDispatched: r.dispatched,
		BatchesSucceeded:  r.succeeded,
	}
}

func interrupted(cause error, next, total int) error {
	err := zerr.Wrap(errors.Join(domain.ErrTransport, cause), "audit interrupted")
	return zerr.With(zerr.With(err, "next_batch", next+1), "batches", total)
}
