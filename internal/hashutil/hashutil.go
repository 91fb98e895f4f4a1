// Package hashutil provides the cheap comparison primitives used throughout
// the reconciler: byte equality, DJB2 and FNV-1a hashing, and common
// prefix/suffix scans for incremental text comparison.
//
// All hashes here are lossy. A hash match narrows the candidates; callers
// must confirm with a full equality check before treating two values as
// identical.
package hashutil

import "bytes"

const (
	djb2Seed    uint32 = 5381
	fnvOffset64 uint64 = 14695981039346656037
	fnvPrime64  uint64 = 1099511628211
)

// BytesEqual reports whether a and b hold the same bytes.
func BytesEqual(a, b []byte) bool {
	return bytes.Equal(a, b)
}

// DJB2 computes the classic DJB2 hash over s using the scalar recurrence
// h = h*33 + c. This is the reference implementation; DJB2Chunked must
// agree with it byte for byte.
func DJB2(s string) uint32 {
	h := djb2Seed
	for i := 0; i < len(s); i++ {
		h = h*33 + uint32(s[i])
	}
	return h
}

// DJB2Chunked computes the DJB2 hash four bytes per step. The recurrence is
// unrolled, not approximated: for any input the result equals DJB2(s).
func DJB2Chunked(s string) uint32 {
	h := djb2Seed
	i := 0
	for ; i+4 <= len(s); i += 4 {
		// h*33^4 + c0*33^3 + c1*33^2 + c2*33 + c3
		h = h*1185921 +
			uint32(s[i])*35937 +
			uint32(s[i+1])*1089 +
			uint32(s[i+2])*33 +
			uint32(s[i+3])
	}
	for ; i < len(s); i++ {
		h = h*33 + uint32(s[i])
	}
	return h
}

// FNV1a64 computes the 64-bit FNV-1a hash of b. Used for larger payloads
// (props records, state snapshots) where 32 bits collide too readily.
func FNV1a64(b []byte) uint64 {
	h := fnvOffset64
	for _, c := range b {
		h ^= uint64(c)
		h *= fnvPrime64
	}
	return h
}

// FNV1a64String is FNV1a64 over a string without an intermediate copy.
func FNV1a64String(s string) uint64 {
	h := fnvOffset64
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= fnvPrime64
	}
	return h
}

// CommonPrefix returns the length of the longest common prefix of a and b.
func CommonPrefix(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

// CommonSuffix returns the length of the longest common suffix of a and b.
func CommonSuffix(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[len(a)-1-i] == b[len(b)-1-i] {
		i++
	}
	return i
}

// CombineHash folds two 32-bit node hashes into a single cache key.
// The asymmetric mix keeps (h1,h2) and (h2,h1) distinct.
func CombineHash(h1, h2 uint32) uint32 {
	return h1*31 ^ (h2<<16 | h2>>16)
}
