package vdom

import "testing"

func TestStyleRegistryInternIsStable(t *testing.T) {
	r := NewStyleRegistry(8)

	a := r.Intern("color:red")
	b := r.Intern("color:blue")
	if a == 0 || b == 0 || a == b {
		t.Fatalf("ids = %d, %d, want distinct non-zero", a, b)
	}
	if again := r.Intern("color:red"); again != a {
		t.Errorf("re-intern = %d, want %d", again, a)
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
}

func TestStyleRegistryEmptyIsSentinel(t *testing.T) {
	r := NewStyleRegistry(8)
	if id := r.Intern(""); id != 0 {
		t.Errorf("Intern(\"\") = %d, want 0", id)
	}
	if _, ok := r.Lookup(""); ok {
		t.Error("Lookup(\"\") must miss")
	}
}

func TestStyleRegistryEvictsColdDeclarations(t *testing.T) {
	r := NewStyleRegistry(2)

	cold := r.Intern("cold")
	r.Intern("warm")
	r.Intern("warm") // refresh so "cold" is the LRU entry
	r.Intern("hot")  // evicts "cold"

	if _, ok := r.Lookup("cold"); ok {
		t.Fatal("cold declaration should have aged out")
	}
	if _, ok := r.Lookup("warm"); !ok {
		t.Error("warm declaration should still be resident")
	}
	if again := r.Intern("cold"); again == cold {
		t.Errorf("re-interned cold got recycled id %d", again)
	}
}

func TestStyleRegistryReset(t *testing.T) {
	r := NewStyleRegistry(4)
	first := r.Intern("x")
	r.Reset()
	if r.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", r.Len())
	}
	if id := r.Intern("y"); id != first {
		t.Errorf("id after Reset = %d, want assignment restarted at %d", id, first)
	}
}
