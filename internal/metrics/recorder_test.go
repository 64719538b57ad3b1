package metrics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/prompted/iotplatform/internal/metrics"
)

func collectSum(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("%s is not an int64 sum", name)
			}
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func TestRecorder(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	rec, err := metrics.NewRecorder(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	ctx := context.Background()

	rec.Write(ctx, nil)
	rec.Write(ctx, nil)
	rec.Write(ctx, errors.New("boom"))
	rec.Batch(ctx, 12*time.Millisecond, true)
	rec.Subscribers(ctx, 2)
	rec.Subscribers(ctx, -1)
	rec.Delivered(ctx, "heartbeat", 3)
	rec.Delivered(ctx, "heartbeat", 0)

	if got := collectSum(t, reader, "telemetry.writes"); got != 3 {
		t.Errorf("writes = %d, want 3", got)
	}
	if got := collectSum(t, reader, "telemetry.batches"); got != 1 {
		t.Errorf("batches = %d, want 1", got)
	}
	if got := collectSum(t, reader, "broadcast.subscribers"); got != 1 {
		t.Errorf("subscribers = %d, want 1", got)
	}
	if got := collectSum(t, reader, "broadcast.deliveries"); got != 3 {
		t.Errorf("deliveries = %d, want 3", got)
	}
}

func TestNilRecorder(t *testing.T) {
	var rec *metrics.Recorder
	ctx := context.Background()
	rec.Write(ctx, nil)
	rec.Batch(ctx, time.Second, false)
	rec.Subscribers(ctx, 1)
	rec.Delivered(ctx, "heartbeat", 1)
}

func TestNewProviderWithoutEndpoint(t *testing.T) {
	p, err := metrics.NewProvider(context.Background(), "", "iot-platform")
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	if p.MeterProvider == nil {
		t.Fatal("expected a meter provider")
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}

func TestNewProviderRejectsBadEndpoint(t *testing.T) {
	if _, err := metrics.NewProvider(context.Background(), "http://", "iot-platform"); err == nil {
		t.Fatal("expected error for endpoint without host")
	}
}
