package grib

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// indicatorLen is the fixed size of section 0.
const indicatorLen = 16

var gribMagic = []byte("GRIB")

const (
	disciplineMeteorological = 0
	gribEdition              = 2
)

// Indicator is the decoded section 0: the "GRIB" magic, the product
// discipline, the edition number, and the total message length in bytes
// (indicator and end marker included).
type Indicator struct {
	Discipline    uint8
	Edition       uint8
	MessageLength uint64
}

func parseIndicator(buf []byte) (Indicator, error) {
	if len(buf) < indicatorLen {
		return Indicator{}, fmt.Errorf("%w: %d bytes is too short for the indicator section", ErrMalformedMessage, len(buf))
	}
	if !bytes.Equal(buf[:4], gribMagic) {
		return Indicator{}, fmt.Errorf("%w: missing GRIB magic", ErrMalformedMessage)
	}

	ind := Indicator{
		Discipline:    buf[6],
		Edition:       buf[7],
		MessageLength: binary.BigEndian.Uint64(buf[8:16]),
	}
	if ind.Edition != gribEdition {
		return Indicator{}, fmt.Errorf("%w: edition %d", ErrUnsupportedEdition, ind.Edition)
	}
	if ind.Discipline != disciplineMeteorological {
		return Indicator{}, fmt.Errorf("%w: discipline %d", ErrUnsupportedDiscipline, ind.Discipline)
	}
	if ind.MessageLength < indicatorLen+uint64(len(endMarker)) {
		return Indicator{}, fmt.Errorf("%w: declared message length %d", ErrMalformedMessage, ind.MessageLength)
	}
	if ind.MessageLength > uint64(len(buf)) {
		return Indicator{}, fmt.Errorf("%w: declared message length %d exceeds input of %d bytes",
			ErrMalformedMessage, ind.MessageLength, len(buf))
	}
	return ind, nil
}
