package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Recorder holds the platform instruments. A nil *Recorder records
// nothing.
type Recorder struct {
	writes        metric.Int64Counter
	batches       metric.Int64Counter
	batchDuration metric.Float64Histogram
	subscribers   metric.Int64UpDownCounter
	deliveries    metric.Int64Counter
}

// NewRecorder creates the instruments on m.
func NewRecorder(m metric.Meter) (*Recorder, error) {
	writes, err := m.Int64Counter("telemetry.writes",
		metric.WithDescription("Telemetry records written, by outcome"))
	if err != nil {
		return nil, err
	}
	batches, err := m.Int64Counter("telemetry.batches",
		metric.WithDescription("Ingestion batches completed, by outcome"))
	if err != nil {
		return nil, err
	}
	batchDuration, err := m.Float64Histogram("telemetry.batch.duration",
		metric.WithDescription("Time from batch admission to the last terminal write"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}
	subscribers, err := m.Int64UpDownCounter("broadcast.subscribers",
		metric.WithDescription("Connected live subscribers"))
	if err != nil {
		return nil, err
	}
	deliveries, err := m.Int64Counter("broadcast.deliveries",
		metric.WithDescription("Events enqueued to subscribers, by event name"))
	if err != nil {
		return nil, err
	}
	return &Recorder{
		writes:        writes,
		batches:       batches,
		batchDuration: batchDuration,
		subscribers:   subscribers,
		deliveries:    deliveries,
	}, nil
}

func outcome(failed bool) attribute.KeyValue {
	if failed {
		return attribute.String("outcome", "failure")
	}
	return attribute.String("outcome", "success")
}

// Write records one terminal write.
func (r *Recorder) Write(ctx context.Context, err error) {
	if r == nil {
		return
	}
	r.writes.Add(ctx, 1, metric.WithAttributes(outcome(err != nil)))
}

// Batch records one completed batch.
func (r *Recorder) Batch(ctx context.Context, elapsed time.Duration, failed bool) {
	if r == nil {
		return
	}
	attrs := metric.WithAttributes(outcome(failed))
	r.batches.Add(ctx, 1, attrs)
	r.batchDuration.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)
}

// Subscribers adjusts the connected subscriber gauge.
func (r *Recorder) Subscribers(ctx context.Context, delta int64) {
	if r == nil {
		return
	}
	r.subscribers.Add(ctx, delta)
}

// Delivered records n enqueued deliveries of event.
func (r *Recorder) Delivered(ctx context.Context, event string, n int) {
	if r == nil || n == 0 {
		return
	}
	r.deliveries.Add(ctx, int64(n), metric.WithAttributes(attribute.String("event", event)))
}
