// Package arena provides the fixed-capacity allocation primitives shared by
// the tree, fiber, and scratch-buffer layers. Nothing here grows: exhaustion
// is reported through a zero handle or nil slice and the caller decides
// whether to retry, drop, or skip.
package arena

// Handle is a 1-based index into a Pool. Zero is the "none" sentinel, so a
// stale or failed allocation can never alias slot zero.
type Handle uint32

// None is the zero Handle.
const None Handle = 0

// Pool is a fixed-capacity object pool with a freelist. Alloc and Free are
// O(1). The pool is not safe for concurrent use; the reconciler is
// single-threaded by design.
type Pool[T any] struct {
	slots []T
	free  []Handle
	live  []bool
	inUse int
}

// NewPool creates a pool holding at most capacity objects.
func NewPool[T any](capacity int) *Pool[T] {
	p := &Pool[T]{
		slots: make([]T, capacity),
		free:  make([]Handle, 0, capacity),
		live:  make([]bool, capacity),
	}
	for i := capacity; i > 0; i-- {
		p.free = append(p.free, Handle(i))
	}
	return p
}

// Alloc reserves a slot and returns its handle, or None when the pool is
// exhausted. The slot is zeroed before it is handed out.
func (p *Pool[T]) Alloc() Handle {
	if len(p.free) == 0 {
		return None
	}
	h := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	var zero T
	p.slots[h-1] = zero
	p.live[h-1] = true
	p.inUse++
	return h
}

// Get returns the object for h, or nil if h is None, out of range, or freed.
func (p *Pool[T]) Get(h Handle) *T {
	if h == None || int(h) > len(p.slots) || !p.live[h-1] {
		return nil
	}
	return &p.slots[h-1]
}

// Free returns the slot for h to the freelist. Freeing None or an already
// freed handle is a no-op.
func (p *Pool[T]) Free(h Handle) {
	if h == None || int(h) > len(p.slots) || !p.live[h-1] {
		return
	}
	p.live[h-1] = false
	p.free = append(p.free, h)
	p.inUse--
}

// Reset reclaims every slot at once.
func (p *Pool[T]) Reset() {
	p.free = p.free[:0]
	for i := len(p.slots); i > 0; i-- {
		p.live[i-1] = false
		p.free = append(p.free, Handle(i))
	}
	p.inUse = 0
}

// InUse returns the number of live allocations.
func (p *Pool[T]) InUse() int {
	return p.inUse
}

// Cap returns the pool capacity.
func (p *Pool[T]) Cap() int {
	return len(p.slots)
}

// Bump is a byte bump arena for per-pass scratch buffers. Alloc returns
// slices of the backing array; Reset invalidates all of them at once.
type Bump struct {
	buf []byte
	off int
}

// NewBump creates a bump arena of the given size in bytes.
func NewBump(size int) *Bump {
	return &Bump{buf: make([]byte, size)}
}

// Alloc returns a zeroed n-byte slice, or nil when the arena is out of
// space. The slice is valid until the next Reset.
func (b *Bump) Alloc(n int) []byte {
	if n < 0 || b.off+n > len(b.buf) {
		return nil
	}
	s := b.buf[b.off : b.off+n : b.off+n]
	for i := range s {
		s[i] = 0
	}
	b.off += n
	return s
}

// Reset rewinds the arena. Previously returned slices must not be used
// afterwards.
func (b *Bump) Reset() {
	b.off = 0
}

// Remaining returns the number of unallocated bytes.
func (b *Bump) Remaining() int {
	return len(b.buf) - b.off
}
