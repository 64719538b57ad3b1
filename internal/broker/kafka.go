// Package broker mirrors stored telemetry records to a Kafka topic.
package broker

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/prompted/iotplatform/internal/models"
)

// emitTimeout bounds a single asynchronous emit. DrainTimeout waits at
// least this long.
const emitTimeout = 5 * time.Second

// DrainTimeout is how long Close waits for in-flight emits.
const DrainTimeout = emitTimeout

// MessageWriter is satisfied by *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaProducer publishes records keyed by device id.
type KafkaProducer struct {
	writer MessageWriter
	topic  string
	wg     sync.WaitGroup
}

// NewKafkaProducer creates a producer for topic. It returns nil when
// brokers or topic is empty; a nil producer ignores every call.
func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	if len(brokers) == 0 || topic == "" {
		return nil
	}
	return NewProducerWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
	}, topic)
}

// NewProducerWithWriter wraps an existing writer.
func NewProducerWithWriter(w MessageWriter, topic string) *KafkaProducer {
	return &KafkaProducer{writer: w, topic: topic}
}

// Emit writes rec as JSON.
func (p *KafkaProducer) Emit(ctx context.Context, rec models.TelemetryRecord) error {
	if p == nil || p.writer == nil {
		return nil
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, emitTimeout)
	defer cancel()
	return p.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(rec.DeviceID),
		Value: payload,
	})
}

// Stored emits rec in the background. Failures are logged and never
// reach the ingestion path.
func (p *KafkaProducer) Stored(_ context.Context, rec models.TelemetryRecord) {
	if p == nil || p.writer == nil {
		return
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		// detached from the request so a finished response does not abort the emit
		if err := p.Emit(context.Background(), rec); err != nil {
			slog.Warn("kafka emit failed", "topic", p.topic, "device_id", rec.DeviceID, "error", err)
		}
	}()
}

// Close waits up to DrainTimeout for in-flight emits and closes the
// writer. Safe on a nil producer.
func (p *KafkaProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(DrainTimeout):
		slog.Warn("kafka drain timed out", "topic", p.topic)
	}
	return p.writer.Close()
}
