package domain

import (
	"context"
	"time"
)

// RawMessage is one GRIB2 message as consumed from the source topic, plus
// the source coordinates needed for logging and offset commits.
type RawMessage struct {
	Key       []byte
	Value     []byte
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time

	// Commit acknowledges the message offset once it has been processed.
	// Nil when the source does not track offsets.
	Commit func(ctx context.Context) error
}
