// Package fiber implements the cooperative render scheduler: reconciliation
// work split into resumable units (fibers), drained strictly by priority
// under per-priority time budgets. Execution is single-threaded; "concurrent"
// means interruptible across time, not parallel. One renderer instance must
// not be shared across goroutines without external synchronization.
package fiber

import (
	"time"

	"github.com/zylix-dev/zylix/pkg/vdom"
)

const (
	// MaxFibers bounds the fiber pool. One walk fiber per tree node plus
	// effect fibers fits comfortably under vdom.MaxNodes headroom.
	MaxFibers = 4096

	// DefaultQueueCapacity is the per-priority ring size.
	DefaultQueueCapacity = 1024
)

// FiberID identifies a pooled fiber. Zero is the "none" sentinel.
type FiberID uint32

// NoFiber is the zero FiberID.
const NoFiber FiberID = 0

// WorkType classifies the unit of work a fiber carries.
type WorkType uint8

const (
	WorkCreate WorkType = iota
	WorkUpdate
	WorkDelete
	WorkReconcile
	WorkEffect
	WorkLayout
)

// String returns the string representation of the WorkType.
func (w WorkType) String() string {
	switch w {
	case WorkCreate:
		return "Create"
	case WorkUpdate:
		return "Update"
	case WorkDelete:
		return "Delete"
	case WorkReconcile:
		return "Reconcile"
	case WorkEffect:
		return "Effect"
	case WorkLayout:
		return "Layout"
	default:
		return "Unknown"
	}
}

// Status is the fiber state machine: Pending → InProgress → Completed, or
// → Cancelled from either live state.
type Status uint8

const (
	StatusPending Status = iota
	StatusInProgress
	StatusCompleted
	StatusCancelled
)

// String returns the string representation of the Status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "InProgress"
	case StatusCompleted:
		return "Completed"
	case StatusCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Priority orders the scheduler queues. Higher values drain first.
type Priority uint8

const (
	PriorityIdle Priority = iota
	PriorityNormal
	PriorityHigh
	PriorityUserBlocking
	PriorityImmediate
	PrioritySync

	numPriorities = int(PrioritySync) + 1
)

// Budget returns the wall-clock slice a work-loop frame may spend on this
// priority before yielding. Sync returns zero, meaning run to completion.
func (p Priority) Budget() time.Duration {
	switch p {
	case PriorityIdle:
		return 1 * time.Millisecond
	case PriorityNormal:
		return 4 * time.Millisecond
	case PriorityHigh:
		return 8 * time.Millisecond
	case PriorityUserBlocking:
		return 16 * time.Millisecond
	case PriorityImmediate:
		return 50 * time.Millisecond
	default:
		return 0
	}
}

// String returns the string representation of the Priority.
func (p Priority) String() string {
	switch p {
	case PriorityIdle:
		return "Idle"
	case PriorityNormal:
		return "Normal"
	case PriorityHigh:
		return "High"
	case PriorityUserBlocking:
		return "UserBlocking"
	case PriorityImmediate:
		return "Immediate"
	case PrioritySync:
		return "Sync"
	default:
		return "Unknown"
	}
}

// Lane is the caller-facing urgency class of a render request.
type Lane uint8

const (
	LaneSync Lane = iota
	LaneConcurrent
	LaneTransition
	LaneDeferred
)

// Priority returns the scheduler priority a lane's fibers run at.
func (l Lane) Priority() Priority {
	switch l {
	case LaneSync:
		return PrioritySync
	case LaneConcurrent:
		return PriorityUserBlocking
	case LaneTransition:
		return PriorityNormal
	default:
		return PriorityIdle
	}
}

// String returns the string representation of the Lane.
func (l Lane) String() string {
	switch l {
	case LaneSync:
		return "Sync"
	case LaneConcurrent:
		return "Concurrent"
	case LaneTransition:
		return "Transition"
	case LaneDeferred:
		return "Deferred"
	default:
		return "Unknown"
	}
}

// Fiber is one resumable unit of render work. Tree-walk fibers mirror a
// VNode; effect fibers carry a callback instead. Link fields describe the
// fiber tree under construction; they are advisory and may reference freed
// fibers once the walk has moved past them.
type Fiber struct {
	ID       FiberID
	Node     vdom.NodeID
	DOMID    uint32
	Work     WorkType
	Status   Status
	Priority Priority

	Parent    FiberID
	Child     FiberID
	Sibling   FiberID
	Alternate FiberID

	// ParentNode and Index locate the fiber's node in its parent's child
	// list, which is how the walk finds the next sibling without a stack.
	ParentNode vdom.NodeID
	Index      int

	effect func()
}
