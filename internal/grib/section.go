package grib

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// endMarker terminates a message where the next section length would be.
var endMarker = []byte("7777")

// sectionHeaderLen is the length field plus the section number byte.
const sectionHeaderLen = 5

// Section is one framed chunk of a GRIB2 message. Length is the declared
// section length including the 4-byte length field and the number byte, so
// len(Payload) == Length-5.
type Section struct {
	ID      uint8
	Length  uint32
	Payload []byte
}

// SectionReader walks the framed sections of an in-memory message body (the
// bytes between the indicator and the end marker, inclusive of the marker).
// Payload slices alias the backing buffer; sections are only valid until the
// buffer is released.
type SectionReader struct {
	buf []byte
	off int
}

// NewSectionReader returns a reader positioned at the first framed section.
func NewSectionReader(buf []byte) *SectionReader {
	return &SectionReader{buf: buf}
}

// Reset rewinds the reader to the first section.
func (r *SectionReader) Reset() { r.off = 0 }

// Next returns the next framed section, or nil once the end marker has been
// reached. Truncated input and overrunning section lengths return
// ErrMalformedSection.
func (r *SectionReader) Next() (*Section, error) {
	rest := r.buf[r.off:]
	if len(rest) < len(endMarker) {
		return nil, fmt.Errorf("%w: input ends at offset %d without end marker", ErrMalformedSection, r.off)
	}
	if bytes.Equal(rest[:len(endMarker)], endMarker) {
		return nil, nil
	}
	if len(rest) < sectionHeaderLen {
		return nil, fmt.Errorf("%w: truncated section header at offset %d", ErrMalformedSection, r.off)
	}

	length := binary.BigEndian.Uint32(rest)
	if length < sectionHeaderLen {
		return nil, fmt.Errorf("%w: declared section length %d is shorter than its header", ErrMalformedSection, length)
	}
	if uint64(length) > uint64(len(rest)) {
		return nil, fmt.Errorf("%w: section %d declares %d bytes but only %d remain",
			ErrMalformedSection, rest[4], length, len(rest))
	}

	sec := &Section{
		ID:      rest[4],
		Length:  length,
		Payload: rest[sectionHeaderLen:length],
	}
	r.off += int(length)
	return sec, nil
}
