package fiber

import (
	"log/slog"
	"time"

	"github.com/zylix-dev/zylix/pkg/vdom"
)

// MetricsSink receives scheduler measurements. Implemented by pkg/metrics;
// a nil sink disables recording.
type MetricsSink interface {
	ObserveFrame(d time.Duration, processed int, yielded bool)
	ObserveQueueDepth(p Priority, depth int)
}

// ConcurrentRenderer turns a render request into a fiber walk over the
// work-in-progress tree and drains it cooperatively under the scheduler's
// budgets. A fiber, once started, runs to completion; the only suspension
// point is between fibers.
type ConcurrentRenderer struct {
	pool  *Pool
	sched *Scheduler

	wip       *vdom.VTree
	committed *vdom.VTree
	lane      Lane
	rendering bool
	rootFiber FiberID

	effects []func()

	log     *slog.Logger
	metrics MetricsSink
}

// RendererOption configures a ConcurrentRenderer.
type RendererOption func(*ConcurrentRenderer)

// WithRendererLogger sets the structured logger. Default: slog.Default.
func WithRendererLogger(log *slog.Logger) RendererOption {
	return func(r *ConcurrentRenderer) {
		r.log = log
	}
}

// WithRendererMetrics sets the metrics sink.
func WithRendererMetrics(sink MetricsSink) RendererOption {
	return func(r *ConcurrentRenderer) {
		r.metrics = sink
	}
}

// WithPoolCapacity bounds the fiber pool. Default: MaxFibers.
func WithPoolCapacity(capacity int) RendererOption {
	return func(r *ConcurrentRenderer) {
		r.pool = NewPool(capacity)
	}
}

// WithQueueCapacity bounds each priority queue. Default:
// DefaultQueueCapacity.
func WithQueueCapacity(capacity int) RendererOption {
	return func(r *ConcurrentRenderer) {
		r.sched = NewSchedulerWithCapacity(capacity)
	}
}

// NewConcurrentRenderer creates a renderer with its own pool and scheduler.
func NewConcurrentRenderer(opts ...RendererOption) *ConcurrentRenderer {
	r := &ConcurrentRenderer{
		pool:  NewPool(MaxFibers),
		sched: NewScheduler(),
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Scheduler returns the renderer's scheduler, mainly for introspection.
func (r *ConcurrentRenderer) Scheduler() *Scheduler {
	return r.sched
}

// Committed returns the most recently committed tree, or nil before the
// first commit.
func (r *ConcurrentRenderer) Committed() *vdom.VTree {
	return r.committed
}

// InProgress reports whether a render walk is between RequestRender and
// Commit or CancelRender.
func (r *ConcurrentRenderer) InProgress() bool {
	return r.rendering
}

// Lane returns the lane of the in-progress render. Meaningless when no
// render is in progress.
func (r *ConcurrentRenderer) Lane() Lane {
	return r.lane
}

// CanInterrupt reports whether a request on the incoming lane would be
// allowed to displace the in-progress render. Always true when idle.
func (r *ConcurrentRenderer) CanInterrupt(incoming Lane) bool {
	if !r.rendering {
		return true
	}
	return r.sched.CanInterrupt(incoming.Priority(), r.lane)
}

// RequestRender starts a walk over tree on the given lane. If a render is
// already in progress it is displaced only when CanInterrupt allows it;
// otherwise the request is refused and the caller retries after the current
// pass commits. Returns false on refusal or pool exhaustion.
func (r *ConcurrentRenderer) RequestRender(tree *vdom.VTree, lane Lane) bool {
	if tree == nil || tree.Root() == vdom.NoNode {
		return false
	}
	prev := NoFiber
	if r.rendering {
		if !r.sched.CanInterrupt(lane.Priority(), r.lane) {
			return false
		}
		prev = r.rootFiber
		r.cancelQueued()
		r.log.Debug("render interrupted", "lane", r.lane, "by", lane)
	}

	root := r.pool.Alloc(WorkReconcile, tree.Root(), lane.Priority())
	if root == NoFiber {
		r.rendering = false
		r.wip = nil
		return false
	}
	f := r.pool.Get(root)
	if n, ok := tree.Node(tree.Root()); ok {
		f.DOMID = n.DOMID
	}
	f.Alternate = prev

	if !r.sched.Enqueue(root, lane.Priority()) {
		r.pool.Free(root)
		r.rendering = false
		r.wip = nil
		return false
	}
	r.wip = tree
	r.lane = lane
	r.rendering = true
	r.rootFiber = root
	return true
}

// QueueEffect registers a callback to run after the next Commit, at
// immediate priority.
func (r *ConcurrentRenderer) QueueEffect(fn func()) {
	if fn == nil {
		return
	}
	r.effects = append(r.effects, fn)
}

// ProcessUntilYield drains fibers until the queues are empty or the frame
// budget for the next fiber's priority expires. A yielded fiber is put back
// at the front of its queue and resumes on a later call, never inline.
func (r *ConcurrentRenderer) ProcessUntilYield() (processed int, yielded bool) {
	r.sched.BeginFrame()
	start := time.Now()

	for {
		id, prio, ok := r.sched.NextFiber()
		if !ok {
			break
		}
		if r.sched.ShouldYield(prio) {
			r.sched.EnqueueFront(id, prio)
			yielded = true
			break
		}
		r.processFiber(id, prio)
		processed++
	}

	if r.metrics != nil {
		r.metrics.ObserveFrame(time.Since(start), processed, yielded)
		for p := 0; p < numPriorities; p++ {
			r.metrics.ObserveQueueDepth(Priority(p), r.sched.PendingAt(Priority(p)))
		}
	}
	if yielded {
		r.log.Debug("work loop yielded", "processed", processed, "pending", r.sched.Pending())
	}
	return processed, yielded
}

// WalkDone reports whether the in-progress walk has drained completely and
// is ready to Commit.
func (r *ConcurrentRenderer) WalkDone() bool {
	return r.rendering && r.sched.Pending() == 0
}

// Commit swaps the work-in-progress tree into the committed slot and
// schedules queued effects at immediate priority. The swap is a plain
// assignment; any observer of Committed sees the new generation atomically.
func (r *ConcurrentRenderer) Commit() *vdom.VTree {
	if r.wip != nil {
		r.committed = r.wip
		r.wip = nil
	}
	r.rendering = false
	r.rootFiber = NoFiber

	for _, fn := range r.effects {
		id := r.pool.Alloc(WorkEffect, vdom.NoNode, PriorityImmediate)
		if id == NoFiber {
			r.log.Warn("fiber pool exhausted, remaining effects dropped")
			break
		}
		r.pool.Get(id).effect = fn
		if !r.sched.Enqueue(id, PriorityImmediate) {
			r.pool.Free(id)
			r.log.Warn("immediate queue full, remaining effects dropped")
			break
		}
	}
	r.effects = r.effects[:0]
	return r.committed
}

// CancelRender drops all pending fibers and resets work-in-progress state.
// Cancellation is logical only: patches already handed out by earlier,
// completed passes are not retracted.
func (r *ConcurrentRenderer) CancelRender() {
	r.cancelQueued()
	r.wip = nil
	r.rendering = false
	r.rootFiber = NoFiber
	r.effects = r.effects[:0]
}

func (r *ConcurrentRenderer) cancelQueued() {
	r.sched.Drain(func(id FiberID) {
		if f := r.pool.Get(id); f != nil {
			f.Status = StatusCancelled
		}
		r.pool.Free(id)
	})
}

// processFiber runs one fiber to completion. Tree-walk fibers expand into
// their first child and next sibling at the same priority, reproducing a
// pre-order walk without a call stack.
func (r *ConcurrentRenderer) processFiber(id FiberID, prio Priority) {
	f := r.pool.Get(id)
	if f == nil {
		return
	}
	f.Status = StatusInProgress

	switch f.Work {
	case WorkEffect:
		if f.effect != nil {
			f.effect()
		}
	case WorkCreate, WorkUpdate, WorkReconcile:
		r.expand(f, prio)
	}
	// Delete and layout fibers carry no structural expansion.

	f.Status = StatusCompleted
	r.pool.Free(id)
}

func (r *ConcurrentRenderer) expand(f *Fiber, prio Priority) {
	if r.wip == nil {
		return
	}
	n, ok := r.wip.Node(f.Node)
	if !ok {
		return
	}

	// Sibling is pushed first, then the first child, both to the queue
	// front: the child drains next, the sibling after the child's subtree.
	if f.ParentNode != vdom.NoNode {
		if pn, ok := r.wip.Node(f.ParentNode); ok && f.Index+1 < len(pn.Children) {
			sib := r.allocWalk(f.Work, pn.Children[f.Index+1], f.ParentNode, f.Index+1, f.Parent, prio)
			if r.enqueueWalk(sib, prio) {
				f.Sibling = sib
			}
		}
	}
	if len(n.Children) > 0 {
		child := r.allocWalk(f.Work, n.Children[0], f.Node, 0, f.ID, prio)
		if r.enqueueWalk(child, prio) {
			f.Child = child
		}
	}
}

// enqueueWalk queues a walk fiber at the front of its priority queue. When
// the queue is full the fiber is freed and its subtree skipped; a leaked
// handle would otherwise pin the pool slot for the life of the renderer.
func (r *ConcurrentRenderer) enqueueWalk(id FiberID, prio Priority) bool {
	if id == NoFiber {
		return false
	}
	if !r.sched.EnqueueFront(id, prio) {
		node := vdom.NoNode
		if f := r.pool.Get(id); f != nil {
			node = f.Node
		}
		r.pool.Free(id)
		r.log.Warn("fiber queue full, subtree skipped", "node", node, "priority", prio)
		return false
	}
	return true
}

func (r *ConcurrentRenderer) allocWalk(work WorkType, node, parentNode vdom.NodeID, index int, parent FiberID, prio Priority) FiberID {
	id := r.pool.Alloc(work, node, prio)
	if id == NoFiber {
		return NoFiber
	}
	f := r.pool.Get(id)
	f.ParentNode = parentNode
	f.Index = index
	f.Parent = parent
	if n, ok := r.wip.Node(node); ok {
		f.DOMID = n.DOMID
	}
	return id
}
