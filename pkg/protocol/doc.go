// Package protocol implements the binary wire codec for patch frames: the
// boundary across which the reconciler hands mutation instructions to an
// external platform renderer.
//
// The encoding is length-prefixed and varint-based, with no reflection and
// no allocation in the encode hot path. Decoding is defensive: every length
// prefix is validated against both the remaining buffer and hard limits
// before memory is committed, so a hostile peer cannot force large
// allocations with a few bytes of input.
package protocol
