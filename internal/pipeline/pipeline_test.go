package pipeline_test

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/precip-grid-etl/internal/domain"
	"github.com/couchcryptid/precip-grid-etl/internal/gribtest"
	"github.com/couchcryptid/precip-grid-etl/internal/observability"
	"github.com/couchcryptid/precip-grid-etl/internal/pipeline"
)

// --- mocks ---

type mockExtractor struct {
	batches [][]domain.RawMessage
	index   atomic.Int64
}

func (m *mockExtractor) ExtractBatch(ctx context.Context, _ int) ([]domain.RawMessage, error) {
	i := int(m.index.Add(1) - 1)
	if i >= len(m.batches) {
		// block until context cancelled to simulate waiting for messages
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return m.batches[i], nil
}

type mockTransformer struct {
	err error
}

func (m *mockTransformer) Transform(_ context.Context, raw domain.RawMessage) ([]domain.PointBatch, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []domain.PointBatch{{ID: string(raw.Key)}}, nil
}

type mockLoader struct {
	loaded []domain.PointBatch
	err    error
}

func (m *mockLoader) LoadBatch(_ context.Context, batches []domain.PointBatch) error {
	if m.err != nil {
		return m.err
	}
	m.loaded = append(m.loaded, batches...)
	return nil
}

func newTestMetrics() *observability.Metrics {
	// Use a fresh registry to avoid "already registered" panics in tests.
	return observability.NewMetricsForTesting()
}

func rawGrib(key string, m gribtest.Message) domain.RawMessage {
	return domain.RawMessage{Key: []byte(key), Value: m.Encode()}
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	raw := rawGrib("msg-1", gribtest.Message{})

	ext := &mockExtractor{batches: [][]domain.RawMessage{{raw}}}
	tfm := pipeline.NewTransformer(domain.BoundingBox{}, slog.Default())
	ldr := &mockLoader{}
	metrics := newTestMetrics()

	p := pipeline.New(ext, tfm, ldr, slog.Default(), metrics, 10)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	err := p.Run(ctx)
	require.NoError(t, err)
	require.Len(t, ldr.loaded, 1)
	assert.Len(t, ldr.loaded[0].Points, 4)
	assert.NoError(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_ContextCancellation(t *testing.T) {
	ext := &mockExtractor{} // no messages, will block
	tfm := &mockTransformer{}
	ldr := &mockLoader{}
	metrics := newTestMetrics()

	p := pipeline.New(ext, tfm, ldr, slog.Default(), metrics, 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	err := p.Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, ldr.loaded)
}

func TestPipeline_Run_DecodeError(t *testing.T) {
	committed := false
	raw := domain.RawMessage{
		Value: []byte("not a grib message"),
		Commit: func(_ context.Context) error {
			committed = true
			return nil
		},
	}

	ext := &mockExtractor{batches: [][]domain.RawMessage{{raw}}}
	tfm := pipeline.NewTransformer(domain.BoundingBox{}, slog.Default())
	ldr := &mockLoader{}
	metrics := newTestMetrics()

	p := pipeline.New(ext, tfm, ldr, slog.Default(), metrics, 10)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	err := p.Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, ldr.loaded)
	assert.Error(t, p.CheckReadiness(context.Background()))
	assert.True(t, committed, "a poison message should still be committed")
}

func TestPipeline_Run_CommitsAfterLoad(t *testing.T) {
	commitCalled := false

	raw := rawGrib("msg-5", gribtest.Message{})
	raw.Topic = "raw-precip-grib2"
	raw.Commit = func(_ context.Context) error {
		commitCalled = true
		return nil
	}

	ext := &mockExtractor{batches: [][]domain.RawMessage{{raw}}}
	tfm := &mockTransformer{}
	ldr := &mockLoader{}
	metrics := newTestMetrics()

	p := pipeline.New(ext, tfm, ldr, slog.Default(), metrics, 10)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	err := p.Run(ctx)
	require.NoError(t, err)
	assert.True(t, commitCalled)
}

func TestPipeline_Run_LoadErrorDoesNotCommit(t *testing.T) {
	committed := false
	raw := rawGrib("msg-6", gribtest.Message{})
	raw.Commit = func(_ context.Context) error {
		committed = true
		return nil
	}

	ext := &mockExtractor{batches: [][]domain.RawMessage{{raw}}}
	tfm := &mockTransformer{}
	ldr := &mockLoader{err: errors.New("broker unavailable")}
	metrics := newTestMetrics()

	p := pipeline.New(ext, tfm, ldr, slog.Default(), metrics, 10)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	err := p.Run(ctx)
	require.NoError(t, err)
	assert.False(t, committed, "offsets must not be committed when the load fails")
}

func TestGribTransformer_Transform(t *testing.T) {
	refTime := time.Date(2024, time.June, 28, 14, 0, 0, 0, time.UTC)
	raw := rawGrib("msg-3", gribtest.Message{
		RefTime: refTime,
		Ni:      2, Nj: 2,
		Values: []uint16{15},
		Scale:  1,
		Levels: []uint16{1, 1, 0, 1},
	})

	tfm := pipeline.NewTransformer(domain.BoundingBox{}, slog.Default())
	batches, err := tfm.Transform(context.Background(), raw)
	require.NoError(t, err)
	require.Len(t, batches, 1)

	batch := batches[0]
	assert.Equal(t, refTime, batch.ReferenceTime)
	require.Len(t, batch.Points, 3)

	want := domain.GridPoint{Lon: 135000000, Lat: 36000000, Value: 1.5}
	if diff := cmp.Diff(want, batch.Points[0]); diff != "" {
		t.Fatalf("first point mismatch (-want +got):\n%s", diff)
	}
}

func TestGribTransformer_Transform_Bounded(t *testing.T) {
	south := int64(36000000)
	raw := rawGrib("msg-4", gribtest.Message{Ni: 2, Nj: 2})

	tfm := pipeline.NewTransformer(domain.BoundingBox{South: &south}, slog.Default())
	batches, err := tfm.Transform(context.Background(), raw)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Len(t, batches[0].Points, 2)
}

func TestGribTransformer_Transform_Invalid(t *testing.T) {
	tfm := pipeline.NewTransformer(domain.BoundingBox{}, slog.Default())
	_, err := tfm.Transform(context.Background(), domain.RawMessage{Value: []byte("garbage")})
	assert.Error(t, err)
}
