package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/precip-grid-etl/internal/gribtest"
)

func TestNewPointBatch(t *testing.T) {
	decodedAt := time.Date(2024, 6, 28, 14, 5, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(decodedAt))
	t.Cleanup(func() { SetClock(nil) })

	refTime := time.Date(2024, 6, 28, 14, 0, 0, 0, time.UTC)
	field := decodeField(t, gribtest.Message{
		RefTime: refTime,
		Ni:      2, Nj: 2,
		Values: []uint16{15},
		Scale:  1,
		Levels: []uint16{1, 1, 0, 1},
	})

	t.Run("materializes filtered points", func(t *testing.T) {
		batch := NewPointBatch(field, refTime, BoundingBox{})

		assert.True(t, strings.HasPrefix(batch.ID, "grid-"))
		assert.Equal(t, refTime, batch.ReferenceTime)
		assert.Equal(t, uint32(2), batch.Ni)
		assert.Equal(t, uint32(2), batch.Nj)
		assert.Equal(t, decodedAt, batch.DecodedAt)
		require.Len(t, batch.Points, 3)
		assert.InDelta(t, 1.5, batch.Points[0].Value, 1e-9)
	})

	t.Run("bounding box narrows the batch", func(t *testing.T) {
		box := BoundingBox{South: bound(36000000)}

		batch := NewPointBatch(field, refTime, box)
		assert.Len(t, batch.Points, 2)
	})

	t.Run("same grid yields the same ID", func(t *testing.T) {
		a := NewPointBatch(field, refTime, BoundingBox{})
		b := NewPointBatch(field, refTime, BoundingBox{})
		assert.Equal(t, a.ID, b.ID)
	})

	t.Run("reference time changes the ID", func(t *testing.T) {
		a := NewPointBatch(field, refTime, BoundingBox{})
		b := NewPointBatch(field, refTime.Add(time.Hour), BoundingBox{})
		assert.NotEqual(t, a.ID, b.ID)
	})
}
