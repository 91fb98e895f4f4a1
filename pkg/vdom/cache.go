package vdom

import "github.com/zylix-dev/zylix/internal/hashutil"

// DefaultDiffCacheSize is the verdict table capacity.
const DefaultDiffCacheSize = 1024

// DefaultMemoCacheSize is the component memo table capacity.
const DefaultMemoCacheSize = 256

// diffEntry is one slot of the verdict table.
type diffEntry struct {
	oldHash    uint32
	newHash    uint32
	patchCount uint16
	equal      bool
	used       bool
}

// DiffCache memoizes "have I already compared these two node hashes"
// verdicts across render passes. It is a best-effort, overwrite-on-collision
// table, not a source of truth: a lookup re-validates the stored hash pair
// and treats any mismatch as a miss. Only the verdict and patch count are
// stored, never the patches themselves, to bound memory.
type DiffCache struct {
	entries []diffEntry
	hits    uint64
	misses  uint64
}

// NewDiffCache creates a verdict cache with the given slot count.
func NewDiffCache(capacity int) *DiffCache {
	if capacity < 1 {
		capacity = DefaultDiffCacheSize
	}
	return &DiffCache{entries: make([]diffEntry, capacity)}
}

func (c *DiffCache) slot(oldHash, newHash uint32) *diffEntry {
	key := hashutil.CombineHash(oldHash, newHash)
	return &c.entries[int(key)%len(c.entries)]
}

// Lookup returns the stored verdict for (oldHash, newHash). ok is false on
// a cold slot or when the slot holds a different hash pair.
func (c *DiffCache) Lookup(oldHash, newHash uint32) (equal bool, patchCount int, ok bool) {
	e := c.slot(oldHash, newHash)
	if !e.used || e.oldHash != oldHash || e.newHash != newHash {
		c.misses++
		return false, 0, false
	}
	c.hits++
	return e.equal, int(e.patchCount), true
}

// Store records a verdict, overwriting whatever the slot held.
func (c *DiffCache) Store(oldHash, newHash uint32, equal bool, patchCount int) {
	if patchCount > 0xffff {
		patchCount = 0xffff
	}
	*c.slot(oldHash, newHash) = diffEntry{
		oldHash:    oldHash,
		newHash:    newHash,
		patchCount: uint16(patchCount),
		equal:      equal,
		used:       true,
	}
}

// Clear empties the table and resets counters.
func (c *DiffCache) Clear() {
	for i := range c.entries {
		c.entries[i] = diffEntry{}
	}
	c.hits = 0
	c.misses = 0
}

// Stats returns the hit and miss counts since the last Clear.
func (c *DiffCache) Stats() (hits, misses uint64) {
	return c.hits, c.misses
}

// memoEntry is one slot of the component memo table.
type memoEntry struct {
	componentID uint32
	propsHash   uint64
	stateHash   uint64
	childCount  uint16
	used        bool
}

// MemoCache stores per-component "render may be skipped" verdicts. A hit
// requires props hash, state hash, and child count to all agree with the
// stored entry; anything less forces a re-render.
type MemoCache struct {
	entries []memoEntry
	hits    uint64
	misses  uint64
}

// NewMemoCache creates a memo cache with the given slot count.
func NewMemoCache(capacity int) *MemoCache {
	if capacity < 1 {
		capacity = DefaultMemoCacheSize
	}
	return &MemoCache{entries: make([]memoEntry, capacity)}
}

func (c *MemoCache) slot(componentID uint32) *memoEntry {
	return &c.entries[int(componentID)%len(c.entries)]
}

// CanSkip reports whether the component's inputs are unchanged since the
// stored entry, meaning its render may be skipped.
func (c *MemoCache) CanSkip(componentID uint32, propsHash, stateHash uint64, childCount int) bool {
	e := c.slot(componentID)
	if !e.used ||
		e.componentID != componentID ||
		e.propsHash != propsHash ||
		e.stateHash != stateHash ||
		int(e.childCount) != childCount {
		c.misses++
		return false
	}
	c.hits++
	return true
}

// Store records the component's current inputs.
func (c *MemoCache) Store(componentID uint32, propsHash, stateHash uint64, childCount int) {
	if childCount > 0xffff {
		childCount = 0xffff
	}
	*c.slot(componentID) = memoEntry{
		componentID: componentID,
		propsHash:   propsHash,
		stateHash:   stateHash,
		childCount:  uint16(childCount),
		used:        true,
	}
}

// Invalidate drops the entry for componentID if present.
func (c *MemoCache) Invalidate(componentID uint32) {
	e := c.slot(componentID)
	if e.used && e.componentID == componentID {
		*e = memoEntry{}
	}
}

// Clear empties the table and resets counters.
func (c *MemoCache) Clear() {
	for i := range c.entries {
		c.entries[i] = memoEntry{}
	}
	c.hits = 0
	c.misses = 0
}

// Stats returns the hit and miss counts since the last Clear.
func (c *MemoCache) Stats() (hits, misses uint64) {
	return c.hits, c.misses
}
