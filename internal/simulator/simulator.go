// Package simulator drives the platform like a fleet of devices: it
// generates readings on an interval, posts each one to the ingestion API
// and announces it over the live socket.
package simulator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prompted/iotplatform/internal/generator"
	"github.com/prompted/iotplatform/internal/httpx"
	"github.com/prompted/iotplatform/internal/models"
)

const insertPath = "/services/v1/telemetry/kubos"

// Heartbeater announces a stored record to live subscribers.
type Heartbeater interface {
	Heartbeat(rec models.TelemetryRecord) error
}

// Options configures Run.
type Options struct {
	PlatformURL   string
	Interval      time.Duration
	ChannelBuffer int
	Ranges        generator.Ranges
	// Limit stops generation after Limit records; zero runs until ctx
	// is cancelled.
	Limit int
}

type insertResponse struct {
	Status  int                    `json:"status"`
	Message string                 `json:"message"`
	Data    models.TelemetryRecord `json:"data"`
}

// Run starts the generator → channel → sender pipeline. It blocks until
// ctx is cancelled or Limit records have been sent. hb may be nil.
func Run(ctx context.Context, opts Options, client *httpx.Client, gen *generator.Generator, hb Heartbeater) {
	slog.Info("simulator started",
		"platform_url", opts.PlatformURL,
		"interval_ms", opts.Interval.Milliseconds(),
		"devices", len(gen.Devices()),
	)

	recCh := make(chan models.TelemetryRecord, max(opts.ChannelBuffer, 1))

	// Sender goroutine owns the HTTP client and the socket.
	doneCh := make(chan struct{})
	go func() {
		defer close(doneCh)
		sender(ctx, client, opts.PlatformURL+insertPath, hb, recCh)
	}()

	generateLoop(ctx, gen, opts, recCh)

	close(recCh)
	<-doneCh
}

// generateLoop emits one record per interval on out.
func generateLoop(ctx context.Context, gen *generator.Generator, opts Options, out chan<- models.TelemetryRecord) {
	for sent := 0; opts.Limit == 0 || sent < opts.Limit; sent++ {
		select {
		case out <- gen.Generate(opts.Ranges):
		case <-ctx.Done():
			return
		}

		select {
		case <-time.After(opts.Interval):
		case <-ctx.Done():
			return
		}
	}
}

func sender(ctx context.Context, client *httpx.Client, url string, hb Heartbeater, in <-chan models.TelemetryRecord) {
	for rec := range in {
		stored, ok := publishRecord(ctx, client, url, rec)
		if !ok || hb == nil {
			continue
		}
		if err := hb.Heartbeat(stored); err != nil {
			slog.Warn("heartbeat failed", "device_id", stored.DeviceID, "error", err)
		}
	}
}

// publishRecord posts one record through the retrying client and returns
// the stored copy.
func publishRecord(ctx context.Context, client *httpx.Client, url string, rec models.TelemetryRecord) (models.TelemetryRecord, bool) {
	start := time.Now()

	var resp insertResponse
	status, err := client.PostJSON(ctx, url, rec, &resp)
	if err != nil {
		slog.Error("publish to platform failed",
			"error", err,
			"device_id", rec.DeviceID,
			"latency_ms", time.Since(start).Milliseconds(),
		)
		return models.TelemetryRecord{}, false
	}
	if status != http.StatusOK {
		slog.Error("platform returned non-200",
			"status", status,
			"message", resp.Message,
			"device_id", rec.DeviceID,
		)
		return models.TelemetryRecord{}, false
	}

	slog.Debug("record published",
		"device_id", resp.Data.DeviceID,
		"id", resp.Data.ID,
		"latency_ms", time.Since(start).Milliseconds(),
	)
	return resp.Data, true
}

// Healthy returns nil when the platform liveness endpoint answers 200.
func Healthy(ctx context.Context, client *httpx.Client, platformURL string) error {
	resp, err := client.Get(ctx, platformURL+"/verifyMe")
	if err != nil {
		return fmt.Errorf("platform verifyMe: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("platform verifyMe: status %d", resp.StatusCode)
	}
	return nil
}
