package domain

import (
	"iter"

	"github.com/couchcryptid/precip-grid-etl/internal/grib"
)

// GridPoint is one non-missing grid point: its coordinates in micro-degrees
// and the physical value (mm/h for the precipitation analysis).
type GridPoint struct {
	Lon   int64   `json:"lon"`
	Lat   int64   `json:"lat"`
	Value float64 `json:"value"`
}

// Assemble yields the non-missing points of a decoded field in row-major
// order, mapping each level index through the field's packing table. The
// sequence is lazy and single-pass; re-ranging restarts from the first
// point.
func Assemble(field *grib.Field) iter.Seq[GridPoint] {
	return func(yield func(GridPoint) bool) {
		var (
			stepLon = field.Grid.StepLon()
			stepLat = field.Grid.StepLat()
			lat     = field.Grid.LatFirst
			idx     int
		)
		for range field.Grid.Nj {
			lon := field.Grid.LonFirst
			for range field.Grid.Ni {
				level := field.Levels[idx]
				idx++
				if v, ok := field.Packing.Value(int(level)); ok {
					if !yield(GridPoint{Lon: lon, Lat: lat, Value: v}) {
						return
					}
				}
				lon += stepLon
			}
			lat += stepLat
		}
	}
}
