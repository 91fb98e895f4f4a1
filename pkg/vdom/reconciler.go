package vdom

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// tracerName is the instrumentation scope for reconciler spans.
const tracerName = "zylix.reconciler"

// MetricsSink receives reconciliation measurements. Implemented by
// pkg/metrics; a nil sink disables recording.
type MetricsSink interface {
	ObserveCommit(d time.Duration, patches int, dropped int)
	ObserveCache(hits, misses uint64)
}

// Reconciler owns the current/next tree pair and drives one commit cycle:
// diff the trees, publish the result, swap the generations. The two trees
// are double-buffered (swapped, never merged) and the swap is a plain
// assignment performed only after the diff has fully completed, so any
// observer of Current always sees the most recently committed generation.
type Reconciler struct {
	current   *VTree
	next      *VTree
	differ    *Differ
	memo      *MemoCache
	committed bool

	lastResult *DiffResult

	log     *slog.Logger
	metrics MetricsSink
	tracer  trace.Tracer
}

// ReconcilerOption configures a Reconciler.
type ReconcilerOption func(*Reconciler)

// WithLogger sets the structured logger. Default: slog.Default.
func WithLogger(log *slog.Logger) ReconcilerOption {
	return func(r *Reconciler) {
		r.log = log
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(sink MetricsSink) ReconcilerOption {
	return func(r *Reconciler) {
		r.metrics = sink
	}
}

// WithTracer overrides the tracer. Default: the global provider's
// "zylix.reconciler" tracer.
func WithTracer(t trace.Tracer) ReconcilerOption {
	return func(r *Reconciler) {
		r.tracer = t
	}
}

// WithDiffCache shares an externally owned verdict cache.
func WithDiffCache(cache *DiffCache) ReconcilerOption {
	return func(r *Reconciler) {
		r.differ = NewDifferWithCache(cache)
	}
}

// NewReconciler creates a reconciler with two empty trees. The instance is
// explicitly owned by the caller; there is no package-level default.
func NewReconciler(opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{
		current: NewVTree(),
		next:    NewVTree(),
		differ:  NewDiffer(),
		memo:    NewMemoCache(DefaultMemoCacheSize),
		log:     slog.Default(),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Next returns the tree under construction for the upcoming commit.
func (r *Reconciler) Next() *VTree {
	return r.next
}

// Current returns the committed tree. Before the first commit it is empty.
func (r *Reconciler) Current() *VTree {
	return r.current
}

// Memo returns the component memo cache, which persists across commits.
func (r *Reconciler) Memo() *MemoCache {
	return r.memo
}

// LastResult returns the patch sequence of the most recent commit, or nil.
func (r *Reconciler) LastResult() *DiffResult {
	return r.lastResult
}

// Commit diffs the committed tree against the next tree, swaps the
// generations, and returns the patch sequence. The first commit is a mount.
// After Commit returns, Next yields a fresh empty tree (the old current
// arena, reset and reused).
func (r *Reconciler) Commit(ctx context.Context) *DiffResult {
	ctx, span := r.tracer.Start(ctx, "reconciler.commit")
	defer span.End()
	_ = ctx

	start := time.Now()

	var old *VTree
	if r.committed {
		old = r.current
	}
	result := r.differ.Diff(old, r.next)

	// Swap only after the diff fully completed.
	r.current, r.next = r.next, r.current
	r.next.Reset()
	r.committed = true
	r.lastResult = result

	elapsed := time.Since(start)
	stats := r.differ.Stats()
	span.SetAttributes(
		attribute.Int("zylix.patch_count", result.Len()),
		attribute.Int("zylix.patches_dropped", result.Dropped()),
		attribute.Int("zylix.nodes_compared", stats.NodesCompared),
		attribute.Int64("zylix.cache_hits", int64(stats.CacheHits)),
	)
	if r.metrics != nil {
		r.metrics.ObserveCommit(elapsed, result.Len(), result.Dropped())
		r.metrics.ObserveCache(stats.CacheHits, stats.CacheMisses)
	}
	r.log.Debug("commit",
		"patches", result.Len(),
		"dropped", result.Dropped(),
		"nodes_compared", stats.NodesCompared,
		"elapsed", elapsed,
	)

	return result
}

// BatchPatches returns the phase-grouped view of the most recent commit.
// Returns an empty batch before the first commit.
func (r *Reconciler) BatchPatches() *PatchBatch {
	return NewPatchBatch(r.lastResult)
}
