package grib

import "fmt"

// DecodeLevels expands the run-length coded bitstream of a data section
// payload into a dense sequence of exactly total level indices.
//
// Samples are bits wide, MSB first, back to back; once total indices have
// been emitted the rest of the stream is padding and is discarded. A sample
// below levelCount
// is a literal level index. A sample v >= levelCount is a run-length digit:
// with base = 2^bits - levelCount, the digits following a literal form a
// little-endian base-`base` number whose value is the count of ADDITIONAL
// repeats of that literal. An off-by-one here shifts every later grid point,
// so the digit weights and the additional-vs-total convention are pinned
// down by the package tests.
func DecodeLevels(payload []byte, bits uint8, levelCount, total int) ([]uint16, error) {
	if bits < 1 || bits > 32 {
		return nil, fmt.Errorf("%w: %d bits per sample", ErrUnsupportedDataTemplate, bits)
	}
	if levelCount < 2 || (bits < 32 && levelCount > 1<<bits) {
		return nil, fmt.Errorf("%w: %d levels in %d-bit samples", ErrMalformedSection, levelCount, bits)
	}

	base := uint64(1)<<bits - uint64(levelCount) // run-length digit base
	out := make([]uint16, 0, total)

	var (
		last    uint16 // most recently emitted literal
		pending uint64 // accumulated additional repeats of last
		weight  uint64 // weight of the next run-length digit
		seen    bool   // at least one literal has been read
	)

	flush := func() error {
		if pending == 0 {
			return nil
		}
		if uint64(len(out))+pending > uint64(total) {
			return fmt.Errorf("%w: run of %d overruns the declared %d points",
				ErrSampleCountMismatch, pending+1, total)
		}
		for range pending {
			out = append(out, last)
		}
		pending = 0
		return nil
	}

	r := &bitReader{buf: payload}
	for len(out) < total && r.remaining() >= int(bits) {
		v := uint64(r.read(bits))
		if v < uint64(levelCount) {
			if err := flush(); err != nil {
				return nil, err
			}
			if len(out) >= total {
				return nil, fmt.Errorf("%w: literal beyond the declared %d points", ErrSampleCountMismatch, total)
			}
			last = uint16(v)
			out = append(out, last)
			weight = 1
			seen = true
			continue
		}
		if !seen {
			return nil, fmt.Errorf("%w: run-length digit before any literal", ErrMalformedSection)
		}
		pending += (v - uint64(levelCount)) * weight
		weight *= base
	}
	if err := flush(); err != nil {
		return nil, err
	}

	if len(out) != total {
		return nil, fmt.Errorf("%w: decoded %d of %d points before the bitstream ran out",
			ErrSampleCountMismatch, len(out), total)
	}
	return out, nil
}
