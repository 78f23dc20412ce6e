package grib

import (
	"encoding/binary"
	"fmt"
)

// gridTemplateLatLon is grid definition template 3.0, the regular
// latitude/longitude grid.
const gridTemplateLatLon = 0

// Scanning mode flags (flag table 3.4). Only the first two are meaningful
// for a row-major regular grid; the others describe layouts this decoder
// does not handle.
const (
	scanLonDecreasing = 0x80 // points in a row run east to west
	scanLatIncreasing = 0x40 // rows run south to north
	scanColumnMajor   = 0x20 // adjacent points are consecutive in j
	scanBoustrophedon = 0x10 // alternate rows reverse direction
)

// GridDefinition is the decoded section 3 for a regular lat/lon grid.
// Coordinates are micro-degrees. Ni counts points along a row (longitude
// axis), Nj counts rows; Di and Dj are the unsigned axis increments and
// ScanMode carries their directions.
type GridDefinition struct {
	Points   uint32
	Ni, Nj   uint32
	LatFirst int64
	LonFirst int64
	LatLast  int64
	LonLast  int64
	Di, Dj   uint32
	ScanMode uint8
}

// StepLon is the signed per-column longitude increment.
func (g GridDefinition) StepLon() int64 {
	if g.ScanMode&scanLonDecreasing != 0 {
		return -int64(g.Di)
	}
	return int64(g.Di)
}

// StepLat is the signed per-row latitude increment. The common scanning mode
// walks the grid north to south, so this is usually negative.
func (g GridDefinition) StepLat() int64 {
	if g.ScanMode&scanLatIncreasing != 0 {
		return int64(g.Dj)
	}
	return -int64(g.Dj)
}

// grid definition payload offsets (octet numbers from the format document
// minus 6, since the payload starts at octet 6):
//
//	0     source of grid definition   41-44 La1, first point latitude
//	1-4   number of data points       45-48 Lo1, first point longitude
//	5     octets per optional list    49    resolution/component flags
//	6     list interpretation         50-53 La2, last point latitude
//	7-8   grid definition template    54-57 Lo2, last point longitude
//	9     shape of the earth          58-61 Di, i-direction increment
//	10-24 earth radii (unused here)   62-65 Dj, j-direction increment
//	25-28 Ni, points along a row      66    scanning mode
//	29-32 Nj, number of rows
//	33-36 basic angle
//	37-40 basic angle subdivisions
const gridDefinitionPayloadLen = 67

func parseGridDefinition(sec *Section) (GridDefinition, error) {
	if len(sec.Payload) < gridDefinitionPayloadLen {
		return GridDefinition{}, fmt.Errorf("%w: grid definition payload is %d bytes, need %d",
			ErrMalformedSection, len(sec.Payload), gridDefinitionPayloadLen)
	}
	p := sec.Payload

	if tmpl := binary.BigEndian.Uint16(p[7:9]); tmpl != gridTemplateLatLon {
		return GridDefinition{}, fmt.Errorf("%w: template 3.%d", ErrUnsupportedGridTemplate, tmpl)
	}

	g := GridDefinition{
		Points:   binary.BigEndian.Uint32(p[1:5]),
		Ni:       binary.BigEndian.Uint32(p[25:29]),
		Nj:       binary.BigEndian.Uint32(p[29:33]),
		LatFirst: signMagnitude32(p[41:45]),
		LonFirst: signMagnitude32(p[45:49]),
		LatLast:  signMagnitude32(p[50:54]),
		LonLast:  signMagnitude32(p[54:58]),
		Di:       binary.BigEndian.Uint32(p[58:62]),
		Dj:       binary.BigEndian.Uint32(p[62:66]),
		ScanMode: p[66],
	}

	if g.ScanMode&(scanColumnMajor|scanBoustrophedon) != 0 {
		return GridDefinition{}, fmt.Errorf("%w: scanning mode %#02x", ErrUnsupportedGridTemplate, g.ScanMode)
	}
	if g.Ni == 0 || g.Nj == 0 {
		return GridDefinition{}, fmt.Errorf("%w: empty grid %dx%d", ErrMalformedSection, g.Ni, g.Nj)
	}
	if uint64(g.Ni)*uint64(g.Nj) != uint64(g.Points) {
		return GridDefinition{}, fmt.Errorf("%w: grid is %dx%d but declares %d points",
			ErrMalformedSection, g.Ni, g.Nj, g.Points)
	}
	return g, nil
}

// signMagnitude32 decodes the format's sign-and-magnitude 32-bit integers:
// the top bit is the sign, the remaining 31 bits the magnitude.
func signMagnitude32(b []byte) int64 {
	v := binary.BigEndian.Uint32(b)
	if v&0x80000000 != 0 {
		return -int64(v &^ 0x80000000)
	}
	return int64(v)
}
