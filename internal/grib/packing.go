package grib

import (
	"encoding/binary"
	"fmt"
	"math"
)

// dataTemplateRunLength is data representation template 5.200, run-length
// packing with a level table.
const dataTemplateRunLength = 200

// PackingTable is the decoded section 5: how packed level indices map to
// physical values. Level 0 is the reserved "missing" level and has no value;
// levels 1..MaxLevel map to the scaled entries of the level table. MaxUsed
// is the largest level index actually present in the message and fixes the
// boundary between literal samples and run-length digits in the data
// section.
type PackingTable struct {
	Points  uint32
	Bits    uint8
	MaxUsed uint16
	values  []float64 // physical values for levels 1..MaxLevel
}

// LevelCount is the number of distinct level indices in this message,
// missing level included. Samples below this count are literals.
func (t PackingTable) LevelCount() int { return int(t.MaxUsed) + 1 }

// Value maps a level index to its physical value. ok is false for the
// missing level 0 and for indices beyond the table.
func (t PackingTable) Value(level int) (value float64, ok bool) {
	if level < 1 || level > len(t.values) {
		return 0, false
	}
	return t.values[level-1], true
}

// packing table payload offsets:
//
//	0-3  number of data points     9-10  MAXL, largest defined level
//	4-5  data representation tmpl  11    decimal scale factor
//	6    bits per packed sample    12..  level values, 2 bytes per level
//	7-8  MAXV, largest level used
const packingFixedPayloadLen = 12

func parsePackingTable(sec *Section) (PackingTable, error) {
	if len(sec.Payload) < packingFixedPayloadLen {
		return PackingTable{}, fmt.Errorf("%w: data representation payload is %d bytes",
			ErrMalformedSection, len(sec.Payload))
	}
	p := sec.Payload

	if tmpl := binary.BigEndian.Uint16(p[4:6]); tmpl != dataTemplateRunLength {
		return PackingTable{}, fmt.Errorf("%w: template 5.%d", ErrUnsupportedDataTemplate, tmpl)
	}

	t := PackingTable{
		Points:  binary.BigEndian.Uint32(p[0:4]),
		Bits:    p[6],
		MaxUsed: binary.BigEndian.Uint16(p[7:9]),
	}
	maxLevel := binary.BigEndian.Uint16(p[9:11])
	scale := signMagnitude8(p[11])

	if t.Bits < 1 || t.Bits > 32 {
		return PackingTable{}, fmt.Errorf("%w: %d bits per sample", ErrUnsupportedDataTemplate, t.Bits)
	}
	if t.MaxUsed == 0 || t.MaxUsed > maxLevel {
		return PackingTable{}, fmt.Errorf("%w: largest level used %d, largest defined %d",
			ErrMalformedSection, t.MaxUsed, maxLevel)
	}
	if t.Bits < 32 && int(t.MaxUsed) >= 1<<t.Bits {
		return PackingTable{}, fmt.Errorf("%w: level %d does not fit in %d bits",
			ErrMalformedSection, t.MaxUsed, t.Bits)
	}

	raw := p[packingFixedPayloadLen:]
	if len(raw) != 2*int(maxLevel) {
		return PackingTable{}, fmt.Errorf("%w: level table holds %d bytes, want %d for %d levels",
			ErrMalformedSection, len(raw), 2*int(maxLevel), maxLevel)
	}

	factor := math.Pow(10, -float64(scale))
	t.values = make([]float64, maxLevel)
	for i := range t.values {
		t.values[i] = float64(binary.BigEndian.Uint16(raw[2*i:])) * factor
	}
	return t, nil
}

// signMagnitude8 decodes a sign-and-magnitude scale factor byte.
func signMagnitude8(b byte) int {
	if b&0x80 != 0 {
		return -int(b &^ 0x80)
	}
	return int(b)
}
