// Package inspect implements the live inspector: a demo reconciliation loop
// whose encoded patch frames are streamed to websocket clients, with
// Prometheus metrics alongside. It consumes only the core's public output
// boundary; nothing in here feeds back into reconciliation.
package inspect

import "sync"

// FrameHistory is a thread-safe ring of recently broadcast frames. A client
// that connects mid-stream replays the buffered window first, so it starts
// with context instead of an arbitrary mid-sequence frame.
//
// The ring overwrites its oldest entry when full.
type FrameHistory struct {
	mu     sync.RWMutex
	frames [][]byte
	head   int
	count  int
}

// NewFrameHistory creates a history ring with the given capacity.
func NewFrameHistory(capacity int) *FrameHistory {
	if capacity < 1 {
		capacity = 64
	}
	return &FrameHistory{frames: make([][]byte, capacity)}
}

// Add stores a copy of frame, evicting the oldest entry when full. The copy
// matters: callers reuse their encode buffers.
func (h *FrameHistory) Add(frame []byte) {
	cp := make([]byte, len(frame))
	copy(cp, frame)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.frames[h.head] = cp
	h.head = (h.head + 1) % len(h.frames)
	if h.count < len(h.frames) {
		h.count++
	}
}

// Replay returns the buffered frames oldest-first. The returned slices are
// the stored copies; treat them as read-only.
func (h *FrameHistory) Replay() [][]byte {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([][]byte, 0, h.count)
	for i := 0; i < h.count; i++ {
		idx := (h.head - h.count + i + len(h.frames)) % len(h.frames)
		out = append(out, h.frames[idx])
	}
	return out
}

// Count returns the number of buffered frames.
func (h *FrameHistory) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

// Clear empties the ring.
func (h *FrameHistory) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.frames {
		h.frames[i] = nil
	}
	h.head = 0
	h.count = 0
}
