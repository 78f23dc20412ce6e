// Package gribtest builds synthetic GRIB2 messages for tests and fixture
// generation. The encoder is the exact inverse of the decoder in
// internal/grib, including the run-length escape coding, so round-trip tests
// can pin down the digit weights of the format.
package gribtest

import (
	"encoding/binary"
	"time"
)

// Message describes a synthetic single-field GRIB2 message. Zero fields get
// sensible defaults from Defaults: a 1-bit two-level table over a small grid
// near Japan.
type Message struct {
	RefTime  time.Time
	Centre   uint16
	Ni, Nj   int
	LatFirst int64 // micro-degrees, northernmost row
	LonFirst int64 // micro-degrees, westernmost column
	Di, Dj   int64 // unsigned micro-degree increments
	Bits     uint8
	MaxUsed  int      // largest level index used (literal/digit boundary)
	Scale    int      // decimal scale factor for the level table
	Values   []uint16 // raw level values for levels 1..len(Values)
	Levels   []uint16 // dense row-major level indices, Ni*Nj of them
}

// Defaults fills unset fields so tests only spell out what they assert on.
func (m Message) Defaults() Message {
	if m.RefTime.IsZero() {
		m.RefTime = time.Date(2024, time.June, 28, 14, 0, 0, 0, time.UTC)
	}
	if m.Centre == 0 {
		m.Centre = 34 // Tokyo
	}
	if m.Ni == 0 {
		m.Ni = 2
	}
	if m.Nj == 0 {
		m.Nj = 2
	}
	if m.LatFirst == 0 {
		m.LatFirst = 36000000
	}
	if m.LonFirst == 0 {
		m.LonFirst = 135000000
	}
	if m.Di == 0 {
		m.Di = 10000
	}
	if m.Dj == 0 {
		m.Dj = 10000
	}
	if m.Bits == 0 {
		m.Bits = 1
	}
	if m.MaxUsed == 0 {
		m.MaxUsed = len(m.Values)
		if m.MaxUsed == 0 {
			m.MaxUsed = 1
		}
	}
	if m.Values == nil {
		m.Values = []uint16{15} // level 1 = 1.5 mm/h at scale 1
		if m.Scale == 0 {
			m.Scale = 1
		}
	}
	if m.Levels == nil {
		m.Levels = make([]uint16, m.Ni*m.Nj)
		for i := range m.Levels {
			m.Levels[i] = 1
		}
	}
	return m
}

// Encode serializes the message, defaults applied. Level slices that do not
// cover Ni*Nj points still encode; the resulting message is deliberately
// inconsistent and useful for error-path tests.
func (m Message) Encode() []byte {
	m = m.Defaults()

	body := section1(m)
	body = append(body, section3(m)...)
	body = append(body, section4()...)
	body = append(body, section5(m)...)
	body = append(body, section6()...)
	body = append(body, section7(m)...)
	body = append(body, "7777"...)

	msg := indicator(uint64(16 + len(body)))
	return append(msg, body...)
}

func indicator(total uint64) []byte {
	b := make([]byte, 16)
	copy(b, "GRIB")
	b[6] = 0 // discipline: meteorological
	b[7] = 2 // edition
	binary.BigEndian.PutUint64(b[8:], total)
	return b
}

func section1(m Message) []byte {
	b := newSection(1, 21)
	binary.BigEndian.PutUint16(b[5:], m.Centre)
	// sub-centre, table versions, time significance left zero.
	binary.BigEndian.PutUint16(b[12:], uint16(m.RefTime.Year()))
	b[14] = byte(m.RefTime.Month())
	b[15] = byte(m.RefTime.Day())
	b[16] = byte(m.RefTime.Hour())
	b[17] = byte(m.RefTime.Minute())
	b[18] = byte(m.RefTime.Second())
	return b
}

func section3(m Message) []byte {
	b := newSection(3, 72)
	binary.BigEndian.PutUint32(b[6:], uint32(m.Ni*m.Nj))
	binary.BigEndian.PutUint16(b[12:], 0) // template 3.0
	b[14] = 4                             // shape of the earth: GRS80
	binary.BigEndian.PutUint32(b[30:], uint32(m.Ni))
	binary.BigEndian.PutUint32(b[34:], uint32(m.Nj))
	putSignMagnitude32(b[46:], m.LatFirst)
	putSignMagnitude32(b[50:], m.LonFirst)
	putSignMagnitude32(b[55:], m.LatFirst-int64(m.Nj-1)*m.Dj)
	putSignMagnitude32(b[59:], m.LonFirst+int64(m.Ni-1)*m.Di)
	binary.BigEndian.PutUint32(b[63:], uint32(m.Di))
	binary.BigEndian.PutUint32(b[67:], uint32(m.Dj))
	b[71] = 0x00 // scan west→east, north→south, row-major
	return b
}

func section4() []byte {
	// Product definition carries nothing the decoder reads; a minimal frame
	// keeps the section sequence intact.
	return newSection(4, 9)
}

func section5(m Message) []byte {
	b := newSection(5, uint32(17+2*len(m.Values)))
	binary.BigEndian.PutUint32(b[5:], uint32(m.Ni*m.Nj))
	binary.BigEndian.PutUint16(b[9:], 200) // template 5.200
	b[11] = m.Bits
	binary.BigEndian.PutUint16(b[12:], uint16(m.MaxUsed))
	binary.BigEndian.PutUint16(b[14:], uint16(len(m.Values)))
	b[16] = byte(m.Scale)
	if m.Scale < 0 {
		b[16] = byte(-m.Scale) | 0x80
	}
	for i, v := range m.Values {
		binary.BigEndian.PutUint16(b[17+2*i:], v)
	}
	return b
}

func section6() []byte {
	b := newSection(6, 6)
	b[5] = 0xFF // no bitmap
	return b
}

func section7(m Message) []byte {
	packed := EncodeLevels(m.Levels, m.Bits, m.MaxUsed+1)
	b := newSection(7, uint32(5+len(packed)))
	copy(b[5:], packed)
	return b
}

// newSection returns a zeroed section frame with the length and number set.
func newSection(id uint8, length uint32) []byte {
	b := make([]byte, length)
	binary.BigEndian.PutUint32(b, length)
	b[4] = id
	return b
}

func putSignMagnitude32(b []byte, v int64) {
	u := uint32(v)
	if v < 0 {
		u = uint32(-v) | 0x80000000
	}
	binary.BigEndian.PutUint32(b, u)
}
