package protocol

import "errors"

// Decoding limits. Patch fields are bounded by the tree model's own caps,
// so the wire limits can be tight: a length prefix exceeding them is
// malformed input, not a large-but-legal payload.
const (
	// MaxStringLen bounds any length-prefixed string on the wire. Matches
	// the largest bounded string in the tree model (text content).
	MaxStringLen = 512

	// MaxFramePatches bounds the patch count of a single frame. Matches
	// the differ's per-pass patch capacity.
	MaxFramePatches = 8192

	// MaxFrameBytes bounds the total size of an encoded frame accepted by
	// DecodeFrame.
	MaxFrameBytes = 4 * 1024 * 1024
)

// Decoding errors.
var (
	ErrShortBuffer    = errors.New("protocol: buffer too short")
	ErrVarintOverflow = errors.New("protocol: varint overflow")
	ErrStringTooLong  = errors.New("protocol: string exceeds wire limit")
	ErrFrameTooLarge  = errors.New("protocol: frame exceeds size limit")
	ErrTooManyPatches = errors.New("protocol: patch count exceeds limit")
	ErrUnknownPatch   = errors.New("protocol: unknown patch type")
)
