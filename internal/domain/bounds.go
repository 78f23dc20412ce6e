package domain

import (
	"errors"
	"fmt"
	"iter"
)

// ErrInvalidBounds marks a self-contradictory bounding box. It is reported
// once when the box is validated, before any decoding starts.
var ErrInvalidBounds = errors.New("invalid bounding box")

// BoundingBox restricts emitted points to an optional north/south/east/west
// window. Bounds are micro-degrees; a nil bound leaves that side open. The
// zero value passes every point.
type BoundingBox struct {
	North *int64
	South *int64
	West  *int64
	East  *int64
}

// Validate rejects boxes whose opposing bounds contradict each other.
func (b BoundingBox) Validate() error {
	if b.North != nil && b.South != nil && *b.North < *b.South {
		return fmt.Errorf("%w: north %d is south of south %d", ErrInvalidBounds, *b.North, *b.South)
	}
	if b.East != nil && b.West != nil && *b.East < *b.West {
		return fmt.Errorf("%w: east %d is west of west %d", ErrInvalidBounds, *b.East, *b.West)
	}
	return nil
}

// Contains reports whether the coordinate pair satisfies every present
// bound. Bounds are inclusive.
func (b BoundingBox) Contains(lon, lat int64) bool {
	if b.North != nil && lat > *b.North {
		return false
	}
	if b.South != nil && lat < *b.South {
		return false
	}
	if b.West != nil && lon < *b.West {
		return false
	}
	if b.East != nil && lon > *b.East {
		return false
	}
	return true
}

// Filter narrows a point sequence to the box. With no bounds set it yields
// the input unchanged.
func (b BoundingBox) Filter(points iter.Seq[GridPoint]) iter.Seq[GridPoint] {
	return func(yield func(GridPoint) bool) {
		for p := range points {
			if !b.Contains(p.Lon, p.Lat) {
				continue
			}
			if !yield(p) {
				return
			}
		}
	}
}
