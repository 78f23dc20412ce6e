// Package grib decodes JMA precipitation-analysis GRIB2 messages.
//
// # Format
//
// A message is a sequence of framed sections between a fixed 16-byte
// indicator ("GRIB", discipline, edition, total length) and the literal end
// marker "7777". Every framed section starts with a big-endian uint32 length
// (counting the length field itself and the section number byte) followed by
// a one-byte section number and the payload. All multi-byte integers in the
// format are big-endian; latitudes and longitudes are micro-degrees
// (degrees × 1,000,000) in sign-and-magnitude representation.
//
// Only the message variant produced for the JMA precipitation analysis is
// handled:
//
//	section 1  identification: reference time
//	section 3  grid definition: template 3.0, regular lat/lon grid
//	section 5  data representation: template 5.200, run-length level packing
//	section 6  bitmap: must declare "no bitmap"
//	section 7  data: the run-length coded level stream
//
// Other grid or data representation templates are rejected with
// [ErrUnsupportedGridTemplate] or [ErrUnsupportedDataTemplate] rather than
// silently misdecoded.
//
// # Run-length level packing
//
// Grid point values are quantized into level indices 0..MAXV, where MAXV is
// the largest level used in the message and level 0 means "missing". The
// data section packs fixed-width samples of NBIT bits, MSB first. A sample
// below the level count (MAXV+1) is a literal level index. A sample at or
// above it is a run-length digit extending the run of the most recent
// literal: with LNGU = 2^NBIT - (MAXV+1), the n-th digit d_n (counting from
// 1) contributes (d_n - (MAXV+1)) * LNGU^(n-1) additional repeats. Digits
// are therefore little-endian in base LNGU. The decoded stream must contain
// exactly Ni*Nj level indices; anything else is [ErrSampleCountMismatch].
//
// Decoding is a pure in-memory operation: callers read the whole message
// into a byte slice and pass it to [Decode].
package grib
