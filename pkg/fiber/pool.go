package fiber

import (
	"github.com/zylix-dev/zylix/internal/arena"
	"github.com/zylix-dev/zylix/pkg/vdom"
)

// Pool recycles fibers across render passes so a steady-state render loop
// performs no per-fiber heap allocation. Not safe for concurrent use.
type Pool struct {
	slots *arena.Pool[Fiber]
}

// NewPool creates a pool holding at most capacity fibers.
func NewPool(capacity int) *Pool {
	if capacity < 1 {
		capacity = MaxFibers
	}
	return &Pool{slots: arena.NewPool[Fiber](capacity)}
}

// Alloc reserves a pending fiber for the given work unit. Returns NoFiber
// when the pool is exhausted.
func (p *Pool) Alloc(work WorkType, node vdom.NodeID, prio Priority) FiberID {
	h := p.slots.Alloc()
	if h == arena.None {
		return NoFiber
	}
	f := p.slots.Get(h)
	f.ID = FiberID(h)
	f.Node = node
	f.Work = work
	f.Status = StatusPending
	f.Priority = prio
	return f.ID
}

// Get returns the fiber for id, or nil if id is NoFiber, unknown, or freed.
func (p *Pool) Get(id FiberID) *Fiber {
	return p.slots.Get(arena.Handle(id))
}

// Free recycles id. Freeing NoFiber or an already freed id is a no-op.
func (p *Pool) Free(id FiberID) {
	p.slots.Free(arena.Handle(id))
}

// Reset reclaims every fiber at once. Outstanding ids fail Get afterwards.
func (p *Pool) Reset() {
	p.slots.Reset()
}

// InUse returns the number of live fibers.
func (p *Pool) InUse() int {
	return p.slots.InUse()
}

// Cap returns the pool capacity.
func (p *Pool) Cap() int {
	return p.slots.Cap()
}
