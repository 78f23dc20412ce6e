package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/couchcryptid/precip-grid-etl/internal/grib"
)

// PointBatch is the sink-topic event for one decoded field: grid metadata,
// the bounding-box-filtered points, and the decode timestamp.
type PointBatch struct {
	ID            string      `json:"id"`
	ReferenceTime time.Time   `json:"reference_time"`
	Ni            uint32      `json:"ni"`
	Nj            uint32      `json:"nj"`
	Points        []GridPoint `json:"points"`
	DecodedAt     time.Time   `json:"decoded_at"`
}

// NewPointBatch materializes the filtered points of a decoded field.
// refTime is the message's reference time; box restricts the output.
func NewPointBatch(field *grib.Field, refTime time.Time, box BoundingBox) PointBatch {
	var points []GridPoint
	for p := range box.Filter(Assemble(field)) {
		points = append(points, p)
	}
	return PointBatch{
		ID:            batchID(refTime, field.Grid),
		ReferenceTime: refTime,
		Ni:            field.Grid.Ni,
		Nj:            field.Grid.Nj,
		Points:        points,
		DecodedAt:     clock.Now().UTC(),
	}
}

// batchID derives a deterministic ID from the fields that identify a grid,
// so replaying a message produces the same ID.
func batchID(refTime time.Time, grid grib.GridDefinition) string {
	input := fmt.Sprintf("%d|%dx%d|%d,%d", refTime.Unix(), grid.Ni, grid.Nj, grid.LatFirst, grid.LonFirst)
	hash := sha256.Sum256([]byte(input))
	return "grid-" + hex.EncodeToString(hash[:8])
}
