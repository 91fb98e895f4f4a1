package vdom

import "testing"

func TestDiffCacheStoreLookup(t *testing.T) {
	c := NewDiffCache(64)

	if _, _, ok := c.Lookup(0x1111, 0x2222); ok {
		t.Fatal("cold cache should miss")
	}

	c.Store(0x1111, 0x2222, false, 3)
	equal, count, ok := c.Lookup(0x1111, 0x2222)
	if !ok {
		t.Fatal("stored pair should hit")
	}
	if equal || count != 3 {
		t.Errorf("verdict = (%v, %d), want (false, 3)", equal, count)
	}

	// A different pair that may alias the same slot must not hit.
	if _, _, ok := c.Lookup(0x1111, 0x3333); ok {
		t.Error("different hash pair should miss")
	}
}

func TestDiffCacheOverwritesOnCollision(t *testing.T) {
	c := NewDiffCache(1) // every pair shares the single slot

	c.Store(1, 2, true, 0)
	c.Store(3, 4, false, 7)

	if _, _, ok := c.Lookup(1, 2); ok {
		t.Error("overwritten pair should miss")
	}
	equal, count, ok := c.Lookup(3, 4)
	if !ok || equal || count != 7 {
		t.Errorf("latest pair = (%v, %d, %v), want (false, 7, true)", equal, count, ok)
	}
}

func TestDiffCacheStats(t *testing.T) {
	c := NewDiffCache(64)
	c.Store(1, 2, true, 0)
	c.Lookup(1, 2) // hit
	c.Lookup(5, 6) // miss
	hits, misses := c.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("stats = (%d, %d), want (1, 1)", hits, misses)
	}

	c.Clear()
	if _, _, ok := c.Lookup(1, 2); ok {
		t.Error("Clear should drop all entries")
	}
	hits, misses = c.Stats()
	if hits != 0 || misses != 1 {
		t.Errorf("stats after clear = (%d, %d), want (0, 1)", hits, misses)
	}
}

func TestDiffCachePatchCountSaturates(t *testing.T) {
	c := NewDiffCache(64)
	c.Store(1, 2, false, 1<<20)
	_, count, ok := c.Lookup(1, 2)
	if !ok || count != 0xffff {
		t.Errorf("count = %d, want saturated 0xffff", count)
	}
}

func TestMemoCanSkipRequiresAllInputs(t *testing.T) {
	m := NewMemoCache(32)
	const id = 7

	if m.CanSkip(id, 100, 200, 3) {
		t.Fatal("cold memo should not skip")
	}
	m.Store(id, 100, 200, 3)

	if !m.CanSkip(id, 100, 200, 3) {
		t.Error("unchanged inputs should skip")
	}
	if m.CanSkip(id, 101, 200, 3) {
		t.Error("changed props hash must force a render")
	}
	if m.CanSkip(id, 100, 201, 3) {
		t.Error("changed state hash must force a render")
	}
	if m.CanSkip(id, 100, 200, 4) {
		t.Error("changed child count must force a render")
	}
}

func TestMemoInvalidate(t *testing.T) {
	m := NewMemoCache(32)
	m.Store(9, 1, 2, 0)
	m.Invalidate(9)
	if m.CanSkip(9, 1, 2, 0) {
		t.Error("invalidated component should not skip")
	}

	// Invalidating an id that aliases the slot but was never stored must
	// not clobber a live entry.
	m.Store(9, 1, 2, 0)
	m.Invalidate(9 + 32)
	if !m.CanSkip(9, 1, 2, 0) {
		t.Error("invalidating an aliasing id dropped a live entry")
	}
}

func TestMemoSlotCollisionEvicts(t *testing.T) {
	m := NewMemoCache(32)
	m.Store(5, 1, 1, 1)
	m.Store(5+32, 2, 2, 2) // same slot, different component

	if m.CanSkip(5, 1, 1, 1) {
		t.Error("evicted component should not skip")
	}
	if !m.CanSkip(5+32, 2, 2, 2) {
		t.Error("resident component should skip")
	}
}

func TestMemoStats(t *testing.T) {
	m := NewMemoCache(32)
	m.Store(1, 10, 20, 0)
	m.CanSkip(1, 10, 20, 0) // hit
	m.CanSkip(2, 10, 20, 0) // miss
	hits, misses := m.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("stats = (%d, %d), want (1, 1)", hits, misses)
	}
	m.Clear()
	if hits, misses = m.Stats(); hits != 0 || misses != 0 {
		t.Errorf("stats after clear = (%d, %d), want zeros", hits, misses)
	}
}
