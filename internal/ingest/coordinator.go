// Package ingest writes telemetry batches to the storage gateway through a
// bounded window of concurrent inserts and reports one result per batch.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/prompted/iotplatform/internal/fault"
	"github.com/prompted/iotplatform/internal/generator"
	"github.com/prompted/iotplatform/internal/metrics"
	"github.com/prompted/iotplatform/internal/models"
)

// Inserter persists a single record and returns it as stored.
type Inserter interface {
	InsertOne(ctx context.Context, rec models.TelemetryRecord) (models.TelemetryRecord, error)
}

// Observer is notified after every successful write. Stored must not
// block.
type Observer interface {
	Stored(ctx context.Context, rec models.TelemetryRecord)
}

// Config bounds a Coordinator.
type Config struct {
	MaxRecords   int
	Concurrency  int
	WriteTimeout time.Duration
}

// BatchFailure describes the first write that failed in a batch.
type BatchFailure struct {
	// Counter is the number of writes that had completed when the
	// failure was observed.
	Counter int
	NTimes  int
	Err     error
}

// BatchResult is the single outcome of a batch. It is produced only after
// every write in the batch is terminal.
type BatchResult struct {
	NTimes    int
	Completed int
	Records   []models.TelemetryRecord
	Failure   *BatchFailure
}

// Failed reports whether any write in the batch failed.
func (r BatchResult) Failed() bool { return r.Failure != nil }

// Coordinator owns batch admission. It is safe for concurrent use; each
// batch gets its own window.
type Coordinator struct {
	store     Inserter
	gen       *generator.Generator
	cfg       Config
	observers []Observer
	metrics   *metrics.Recorder
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithObservers registers observers for stored records.
func WithObservers(obs ...Observer) Option {
	return func(c *Coordinator) { c.observers = append(c.observers, obs...) }
}

// WithMetrics records write and batch outcomes on rec.
func WithMetrics(rec *metrics.Recorder) Option {
	return func(c *Coordinator) { c.metrics = rec }
}

// NewCoordinator creates a Coordinator. Zero config values fall back to
// 9999 records, 5 concurrent writes and a 10s write timeout.
func NewCoordinator(store Inserter, gen *generator.Generator, cfg Config, opts ...Option) *Coordinator {
	if cfg.MaxRecords < 1 {
		cfg.MaxRecords = 9999
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 5
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	c := &Coordinator{store: store, gen: gen, cfg: cfg}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ParseCount parses a requested batch size. Non-numeric and negative
// values are client errors. A count too large for an int saturates and is
// left for Clamp.
func ParseCount(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if errors.Is(err, strconv.ErrRange) && n > 0 {
		err = nil
	}
	if err != nil || n < 0 {
		return 0, fault.Invalid("nTimes", raw, "must be a non-negative integer")
	}
	return n, nil
}

// Clamp caps n at the configured maximum.
func (c *Coordinator) Clamp(n int) int {
	return min(n, c.cfg.MaxRecords)
}

// IngestSimulated generates and writes a batch of the requested size.
// The only error returned is a client error raised before any write;
// storage failures are reported in the result.
func (c *Coordinator) IngestSimulated(ctx context.Context, raw string, r generator.Ranges) (BatchResult, error) {
	n, err := ParseCount(raw)
	if err != nil {
		return BatchResult{}, err
	}
	if clamped := c.Clamp(n); clamped != n {
		slog.Info("batch size clamped", "requested", n, "max", clamped)
		n = clamped
	}
	return c.write(ctx, c.gen.GenerateN(n, r)), nil
}

// IngestRecords writes caller-supplied records. Supplied ids and times
// are replaced by the gateway. Every record is validated before the first
// write.
func (c *Coordinator) IngestRecords(ctx context.Context, recs []models.TelemetryRecord) (BatchResult, error) {
	if len(recs) > c.cfg.MaxRecords {
		return BatchResult{}, fault.Invalid("records", strconv.Itoa(len(recs)),
			fmt.Sprintf("batch exceeds %d records", c.cfg.MaxRecords))
	}
	for i, rec := range recs {
		if strings.TrimSpace(rec.DeviceID) == "" {
			return BatchResult{}, fault.Invalid(fmt.Sprintf("records[%d].deviceId", i), "", "required")
		}
	}
	return c.write(ctx, recs), nil
}

// write runs every insert with at most Concurrency in flight and waits for
// all of them. A failure does not cancel siblings.
func (c *Coordinator) write(ctx context.Context, recs []models.TelemetryRecord) BatchResult {
	start := time.Now()
	nTimes := len(recs)

	var (
		g         errgroup.Group
		completed atomic.Int64
		mu        sync.Mutex
		failure   *BatchFailure
		stored    = make([]models.TelemetryRecord, nTimes)
		ok        = make([]bool, nTimes)
	)
	g.SetLimit(c.cfg.Concurrency)

	for i, rec := range recs {
		g.Go(func() error {
			writeCtx, cancel := context.WithTimeout(ctx, c.cfg.WriteTimeout)
			out, err := c.store.InsertOne(writeCtx, rec)
			cancel()
			c.metrics.Write(ctx, err)

			if err != nil {
				mu.Lock()
				if failure == nil {
					failure = &BatchFailure{Counter: int(completed.Load()), NTimes: nTimes, Err: err}
				}
				mu.Unlock()
				completed.Add(1)
				return nil
			}

			stored[i], ok[i] = out, true
			completed.Add(1)
			for _, o := range c.observers {
				o.Stored(ctx, out)
			}
			return nil
		})
	}
	_ = g.Wait()

	res := BatchResult{
		NTimes:    nTimes,
		Completed: int(completed.Load()),
		Failure:   failure,
		Records:   make([]models.TelemetryRecord, 0, nTimes),
	}
	for i := range stored {
		if ok[i] {
			res.Records = append(res.Records, stored[i])
		}
	}

	elapsed := time.Since(start)
	c.metrics.Batch(ctx, elapsed, res.Failed())
	if res.Failed() {
		slog.Error("batch write failed",
			"n_times", nTimes,
			"counter", failure.Counter,
			"stored", len(res.Records),
			"error", failure.Err,
			"latency_ms", elapsed.Milliseconds(),
		)
	} else {
		slog.Info("batch written", "n_times", nTimes, "latency_ms", elapsed.Milliseconds())
	}
	return res
}
