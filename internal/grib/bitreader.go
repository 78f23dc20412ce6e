package grib

// bitReader is an MSB-first cursor over a byte slice. Each read is a pure
// function of the cursor position, which keeps the run-length decoder
// testable against hand-built bit patterns.
type bitReader struct {
	buf []byte
	pos int // bit offset from the start of buf
}

// remaining reports how many unread bits are left, trailing pad bits
// included.
func (r *bitReader) remaining() int {
	return len(r.buf)*8 - r.pos
}

// read returns the next n bits as an unsigned integer, most significant bit
// first. The caller must ensure n <= remaining() and 1 <= n <= 32.
func (r *bitReader) read(n uint8) uint32 {
	var v uint32
	for range n {
		v = v<<1 | uint32(r.buf[r.pos>>3]>>(7-r.pos&7))&1
		r.pos++
	}
	return v
}
