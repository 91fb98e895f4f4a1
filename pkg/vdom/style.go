package vdom

import "github.com/zylix-dev/zylix/internal/lru"

// DefaultStyleCapacity bounds how many style declarations a registry keeps
// resident at once.
const DefaultStyleCapacity = 256

// StyleRegistry interns style declaration strings to the numeric ids carried
// in Props.StyleID. Ids are assigned on first sight and never reused; when
// the registry is full the least recently interned declaration ages out, so
// a cold declaration seen again later gets a fresh id. Hot declarations stay
// resident indefinitely, which is the point: unlike the diff and memo tables,
// style interning needs recency-correct eviction, not overwrite-on-collision.
//
// Not safe for concurrent use.
type StyleRegistry struct {
	ids  *lru.Cache[string, uint32]
	next uint32
}

// NewStyleRegistry creates a registry holding at most capacity declarations.
// A capacity below 1 falls back to DefaultStyleCapacity.
func NewStyleRegistry(capacity int) *StyleRegistry {
	if capacity < 1 {
		capacity = DefaultStyleCapacity
	}
	return &StyleRegistry{ids: lru.New[string, uint32](capacity)}
}

// Intern returns the id for decl, assigning a fresh one if the declaration is
// not resident. The empty declaration maps to 0, the "no style" sentinel.
func (r *StyleRegistry) Intern(decl string) uint32 {
	if decl == "" {
		return 0
	}
	decl = clampString(decl, MaxClassLen)
	if id, ok := r.ids.Get(decl); ok {
		return id
	}
	r.next++
	r.ids.Put(decl, r.next)
	return r.next
}

// Lookup reports the id for decl without refreshing its recency.
func (r *StyleRegistry) Lookup(decl string) (uint32, bool) {
	if decl == "" {
		return 0, false
	}
	return r.ids.Peek(clampString(decl, MaxClassLen))
}

// Len returns the number of resident declarations.
func (r *StyleRegistry) Len() int {
	return r.ids.Len()
}

// Reset drops every declaration and restarts id assignment.
func (r *StyleRegistry) Reset() {
	r.ids.Clear()
	r.next = 0
}
