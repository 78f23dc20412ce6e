package gribtest

// EncodeLevels run-length encodes a dense level sequence into the packed
// sample stream of a data section. Runs of a repeated level emit the literal
// once followed by the run extension as little-endian digits in base
// 2^bits - levelCount, each digit offset by levelCount. When the digit base
// is degenerate (fewer than 2) runs are spelled out literal by literal.
func EncodeLevels(levels []uint16, bits uint8, levelCount int) []byte {
	base := 1<<bits - levelCount

	var w bitWriter
	for i := 0; i < len(levels); {
		level := levels[i]
		run := 1
		for i+run < len(levels) && levels[i+run] == level {
			run++
		}
		i += run

		w.write(uint32(level), bits)
		if base < 2 {
			for ; run > 1; run-- {
				w.write(uint32(level), bits)
			}
			continue
		}
		for extra := run - 1; extra > 0; extra /= base {
			w.write(uint32(levelCount+extra%base), bits)
		}
	}
	return w.bytes()
}

// bitWriter packs values MSB first, padding the final byte with zero bits.
type bitWriter struct {
	buf []byte
	pos int // bit offset of the next write
}

func (w *bitWriter) write(v uint32, n uint8) {
	for i := int(n) - 1; i >= 0; i-- {
		if w.pos&7 == 0 {
			w.buf = append(w.buf, 0)
		}
		bit := byte(v>>uint(i)) & 1
		w.buf[w.pos>>3] |= bit << (7 - w.pos&7)
		w.pos++
	}
}

func (w *bitWriter) bytes() []byte { return w.buf }
