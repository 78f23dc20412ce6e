package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/precip-grid-etl/internal/domain"
	"github.com/couchcryptid/precip-grid-etl/internal/grib"
)

// GribTransformer implements Transformer by decoding raw GRIB2 messages and
// materializing one bounded point batch per decoded field.
type GribTransformer struct {
	bounds domain.BoundingBox
	logger *slog.Logger
}

// NewTransformer creates a GribTransformer. The bounding box applies to
// every decoded grid; the zero box keeps all points.
func NewTransformer(bounds domain.BoundingBox, logger *slog.Logger) *GribTransformer {
	return &GribTransformer{
		bounds: bounds,
		logger: logger,
	}
}

func (t *GribTransformer) Transform(_ context.Context, raw domain.RawMessage) ([]domain.PointBatch, error) {
	msg, err := grib.Decode(raw.Value)
	if err != nil {
		return nil, err
	}

	batches := make([]domain.PointBatch, 0, len(msg.Fields))
	for i := range msg.Fields {
		batch := domain.NewPointBatch(&msg.Fields[i], msg.Identification.RefTime, t.bounds)
		t.logger.Debug("grid decoded",
			"batch_id", batch.ID,
			"reference_time", batch.ReferenceTime,
			"grid", batch.Ni*batch.Nj,
			"points", len(batch.Points),
		)
		batches = append(batches, batch)
	}
	return batches, nil
}
