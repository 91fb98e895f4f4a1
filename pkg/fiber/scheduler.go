package fiber

import "time"

// ring is a fixed-capacity circular queue of fiber ids. pushBack feeds new
// work; pushFront is used for depth-first expansion and yield re-enqueue so
// the walk resumes exactly where it stopped.
type ring struct {
	buf   []FiberID
	head  int
	count int
}

func newRing(capacity int) ring {
	return ring{buf: make([]FiberID, capacity)}
}

func (r *ring) pushBack(id FiberID) bool {
	if r.count == len(r.buf) {
		return false
	}
	r.buf[(r.head+r.count)%len(r.buf)] = id
	r.count++
	return true
}

func (r *ring) pushFront(id FiberID) bool {
	if r.count == len(r.buf) {
		return false
	}
	r.head = (r.head - 1 + len(r.buf)) % len(r.buf)
	r.buf[r.head] = id
	r.count++
	return true
}

func (r *ring) pop() (FiberID, bool) {
	if r.count == 0 {
		return NoFiber, false
	}
	id := r.buf[r.head]
	r.head = (r.head + 1) % len(r.buf)
	r.count--
	return id, true
}

func (r *ring) len() int {
	return r.count
}

// Scheduler holds one ring queue per priority and drains them strictly
// highest-first. There is no cross-level fairness or aging: sustained
// high-priority load starves lower queues, which is the accepted tradeoff
// for a predictable frame budget.
type Scheduler struct {
	queues     [numPriorities]ring
	frameStart time.Time

	// now is swapped out by tests to drive the yield clock.
	now func() time.Time
}

// NewScheduler creates a scheduler with DefaultQueueCapacity per priority.
func NewScheduler() *Scheduler {
	return NewSchedulerWithCapacity(DefaultQueueCapacity)
}

// NewSchedulerWithCapacity creates a scheduler with the given per-priority
// queue capacity.
func NewSchedulerWithCapacity(capacity int) *Scheduler {
	if capacity < 1 {
		capacity = DefaultQueueCapacity
	}
	s := &Scheduler{now: time.Now}
	for i := range s.queues {
		s.queues[i] = newRing(capacity)
	}
	return s
}

// clampPriority pins out-of-range priorities to the nearest valid level so a
// bad caller value degrades instead of panicking on the queue index.
func clampPriority(p Priority) Priority {
	if p < PriorityIdle {
		return PriorityIdle
	}
	if p > PrioritySync {
		return PrioritySync
	}
	return p
}

// Enqueue appends id to the back of its priority queue. Returns false when
// the queue is full; the fiber is dropped, never blocked on.
func (s *Scheduler) Enqueue(id FiberID, p Priority) bool {
	return s.queues[clampPriority(p)].pushBack(id)
}

// EnqueueFront prepends id to its priority queue, making it the next fiber
// drained at that level. Used for depth-first child expansion and for
// re-enqueueing a yielded fiber.
func (s *Scheduler) EnqueueFront(id FiberID, p Priority) bool {
	return s.queues[clampPriority(p)].pushFront(id)
}

// NextFiber pops from the highest non-empty queue. ok is false when every
// queue is empty.
func (s *Scheduler) NextFiber() (FiberID, Priority, bool) {
	for p := numPriorities - 1; p >= 0; p-- {
		if id, ok := s.queues[p].pop(); ok {
			return id, Priority(p), true
		}
	}
	return NoFiber, PriorityIdle, false
}

// BeginFrame marks the start of a work-loop frame. Yield deadlines are
// measured from this instant.
func (s *Scheduler) BeginFrame() {
	s.frameStart = s.now()
}

// ShouldYield reports whether the frame has exhausted the budget for p.
// Sync never yields.
func (s *Scheduler) ShouldYield(p Priority) bool {
	if p == PrioritySync {
		return false
	}
	return s.now().Sub(s.frameStart) >= p.Budget()
}

// CanInterrupt reports whether a request at incoming priority may interrupt
// work running on the active lane: strictly greater priority, and the active
// lane is not sync. It only reports permission; it never abandons work.
func (s *Scheduler) CanInterrupt(incoming Priority, active Lane) bool {
	if active == LaneSync {
		return false
	}
	return incoming > active.Priority()
}

// Pending returns the total number of queued fibers.
func (s *Scheduler) Pending() int {
	n := 0
	for i := range s.queues {
		n += s.queues[i].len()
	}
	return n
}

// PendingAt returns the number of fibers queued at p.
func (s *Scheduler) PendingAt(p Priority) int {
	return s.queues[clampPriority(p)].len()
}

// Drain empties every queue, invoking fn (if non-nil) for each fiber in
// drain order.
func (s *Scheduler) Drain(fn func(FiberID)) {
	for p := numPriorities - 1; p >= 0; p-- {
		for {
			id, ok := s.queues[p].pop()
			if !ok {
				break
			}
			if fn != nil {
				fn(id)
			}
		}
	}
}
