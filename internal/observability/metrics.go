package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the ETL pipeline.
type Metrics struct {
	MessagesConsumed prometheus.Counter
	BatchesProduced  prometheus.Counter
	DecodeErrors     prometheus.Counter
	PipelineRunning  prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Decoding metrics.
	GridsDecoded   prometheus.Counter
	PointsEmitted  prometheus.Counter
	DecodeDuration prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		MessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "precip_etl",
			Name:      "messages_consumed_total",
			Help:      "Total raw GRIB2 messages read from the source topic.",
		}),
		BatchesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "precip_etl",
			Name:      "batches_produced_total",
			Help:      "Total point batches written to the sink topic.",
		}),
		DecodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "precip_etl",
			Name:      "decode_errors_total",
			Help:      "Total messages that failed to decode.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "precip_etl",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "precip_etl",
			Name:      "batch_size",
			Help:      "Number of messages per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "precip_etl",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-transform-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		GridsDecoded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "precip_etl",
			Name:      "grids_decoded_total",
			Help:      "Total grids decoded from GRIB2 messages.",
		}),
		PointsEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "precip_etl",
			Name:      "points_emitted_total",
			Help:      "Total non-missing grid points emitted after bounding box filtering.",
		}),
		DecodeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "precip_etl",
			Name:      "decode_duration_seconds",
			Help:      "Duration of decoding a single GRIB2 message.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
	}

	prometheus.MustRegister(
		m.MessagesConsumed,
		m.BatchesProduced,
		m.DecodeErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.GridsDecoded,
		m.PointsEmitted,
		m.DecodeDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		MessagesConsumed:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "precip_etl", Name: "messages_consumed_total"}),
		BatchesProduced:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "precip_etl", Name: "batches_produced_total"}),
		DecodeErrors:            prometheus.NewCounter(prometheus.CounterOpts{Namespace: "precip_etl", Name: "decode_errors_total"}),
		PipelineRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "precip_etl", Name: "pipeline_running"}),
		BatchSize:               prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "precip_etl", Name: "batch_size"}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "precip_etl", Name: "batch_processing_duration_seconds"}),
		GridsDecoded:            prometheus.NewCounter(prometheus.CounterOpts{Namespace: "precip_etl", Name: "grids_decoded_total"}),
		PointsEmitted:           prometheus.NewCounter(prometheus.CounterOpts{Namespace: "precip_etl", Name: "points_emitted_total"}),
		DecodeDuration:          prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "precip_etl", Name: "decode_duration_seconds"}),
	}
}
