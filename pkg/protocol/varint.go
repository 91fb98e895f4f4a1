package protocol

// MaxVarintLen is the worst-case encoded size of a uint64 varint.
const MaxVarintLen = 10

// PutUvarint encodes v into buf using protobuf-style base-128 varints: 7
// data bits per byte, MSB set on continuation bytes. buf must have at least
// MaxVarintLen bytes. Returns the number of bytes written.
func PutUvarint(buf []byte, v uint64) int {
	i := 0
	for v >= 0x80 {
		buf[i] = byte(v) | 0x80
		v >>= 7
		i++
	}
	buf[i] = byte(v)
	return i + 1
}

// Uvarint decodes an unsigned varint from buf. A negative byte count means
// failure: -1 for a truncated varint, -2 for one longer than MaxVarintLen.
func Uvarint(buf []byte) (uint64, int) {
	var v uint64
	var shift uint
	for i, b := range buf {
		if i >= MaxVarintLen {
			return 0, -2
		}
		v |= uint64(b&0x7f) << shift
		if b < 0x80 {
			return v, i + 1
		}
		shift += 7
	}
	return 0, -1
}

// PutSvarint encodes v with ZigZag mapping (0, -1, 1, -2 → 0, 1, 2, 3) so
// small negatives stay small on the wire.
func PutSvarint(buf []byte, v int64) int {
	return PutUvarint(buf, uint64((v<<1)^(v>>63)))
}

// Svarint decodes a ZigZag signed varint. Error reporting as in Uvarint.
func Svarint(buf []byte) (int64, int) {
	uv, n := Uvarint(buf)
	if n < 0 {
		return 0, n
	}
	v := int64(uv >> 1)
	if uv&1 != 0 {
		v = ^v
	}
	return v, n
}

// UvarintLen returns the encoded size of v.
func UvarintLen(v uint64) int {
	n := 1
	for v >= 0x80 {
		n++
		v >>= 7
	}
	return n
}
