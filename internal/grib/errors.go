package grib

import "errors"

// Decode failures wrap one of these sentinels so callers can branch on the
// failure class while still seeing which section or stage produced it.
var (
	// ErrMalformedMessage marks a byte stream that is not a GRIB2 message at
	// all, or whose declared total length disagrees with the input.
	ErrMalformedMessage = errors.New("malformed grib2 message")

	// ErrMalformedSection marks a framing inconsistency: a section length
	// overrunning the input, a missing end marker, or a truncated payload.
	ErrMalformedSection = errors.New("malformed grib2 section")

	// ErrUnsupportedEdition is returned for GRIB editions other than 2.
	ErrUnsupportedEdition = errors.New("unsupported grib edition")

	// ErrUnsupportedDiscipline is returned when the indicator declares a
	// discipline other than 0 (meteorological products).
	ErrUnsupportedDiscipline = errors.New("unsupported grib discipline")

	// ErrUnsupportedGridTemplate is returned when the grid definition is not
	// template 3.0 (regular latitude/longitude grid) or uses a scanning mode
	// the decoder does not handle.
	ErrUnsupportedGridTemplate = errors.New("unsupported grid definition template")

	// ErrUnsupportedDataTemplate is returned when the data representation is
	// not template 5.200 (run-length packing with a level table) or a bitmap
	// is present.
	ErrUnsupportedDataTemplate = errors.New("unsupported data representation template")

	// ErrSampleCountMismatch is returned when run-length expansion of the
	// data section does not produce exactly Ni*Nj level indices.
	ErrSampleCountMismatch = errors.New("sample count mismatch")
)
