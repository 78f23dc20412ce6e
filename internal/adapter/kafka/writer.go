package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/precip-grid-etl/internal/config"
	"github.com/couchcryptid/precip-grid-etl/internal/domain"
)

// Writer produces point batches to the sink topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
		BatchBytes:   maxMessageBytes,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch serializes and publishes multiple point batches to the sink
// Kafka topic in a single WriteMessages call for efficiency.
func (w *Writer) LoadBatch(ctx context.Context, batches []domain.PointBatch) error {
	if len(batches) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(batches))
	for i := range batches {
		msg, err := serializeToMessage(batches[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a PointBatch into a Kafka message.
func serializeToMessage(batch domain.PointBatch) (kafkago.Message, error) {
	data, err := json.Marshal(batch)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize point batch: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(batch.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "reference_time", Value: []byte(batch.ReferenceTime.Format(time.RFC3339))},
			{Key: "decoded_at", Value: []byte(batch.DecodedAt.Format(time.RFC3339))},
		},
	}, nil
}
