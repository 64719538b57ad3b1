// Package query validates read requests and turns them into storage
// gateway calls: counts, trends and limited or time-windowed reads.
package query

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/prompted/iotplatform/internal/fault"
	"github.com/prompted/iotplatform/internal/models"
	"github.com/prompted/iotplatform/internal/store"
)

const (
	// MinLimit and MaxLimit bound every caller-supplied limit.
	MinLimit = 1
	MaxLimit = 9999

	// RangeLimit caps time-windowed reads.
	RangeLimit = 10
)

// Reader is the storage gateway surface used by the engine.
type Reader interface {
	Count(ctx context.Context, f store.Filter) (int64, error)
	AggregateTrend(ctx context.Context, f store.Filter, limit int) ([]models.TrendBucket, error)
	QueryRange(ctx context.Context, f store.Filter, limit int) ([]models.TelemetryRecord, error)
	DropAll(ctx context.Context) (int64, error)
}

// Engine answers read requests.
type Engine struct {
	store      Reader
	maxRecords int
}

// NewEngine creates an Engine. GetAll returns at most maxRecords.
func NewEngine(r Reader, maxRecords int) *Engine {
	return &Engine{store: r, maxRecords: ClampLimit(maxRecords)}
}

// ClampLimit forces n into [MinLimit, MaxLimit].
func ClampLimit(n int) int {
	return max(MinLimit, min(n, MaxLimit))
}

// ParseLimit parses a numeric limit and clamps it. Out-of-range numbers
// are clamped; non-numeric input is a client error.
func ParseLimit(raw string) (int, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		// n is saturated at the int64 bound with the right sign
		err = nil
	}
	if err != nil {
		return 0, fault.Invalid("nLimit", raw, "must be an integer")
	}
	return int(max(MinLimit, min(n, MaxLimit))), nil
}

// ParseBound parses a time bound in Unix seconds.
func ParseBound(name, raw string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || v < 0 {
		return 0, fault.Invalid(name, raw, "must be a non-negative integer")
	}
	return v, nil
}

func checkDevice(id string) error {
	if strings.TrimSpace(id) == "" {
		return fault.Invalid("deviceId", id, "required")
	}
	return nil
}

// GetAll returns up to the configured maximum of the newest records.
func (e *Engine) GetAll(ctx context.Context) ([]models.TelemetryRecord, error) {
	return e.store.QueryRange(ctx, store.All(), e.maxRecords)
}

// GetByDeviceLimit returns the newest limit records of a device,
// ascending. limit is clamped.
func (e *Engine) GetByDeviceLimit(ctx context.Context, deviceID string, limit int) ([]models.TelemetryRecord, error) {
	if err := checkDevice(deviceID); err != nil {
		return nil, err
	}
	return e.store.QueryRange(ctx, store.Device(deviceID), ClampLimit(limit))
}

// GetByDeviceRange returns at most RangeLimit records of a device within
// [from, to], newest first truncation, ascending presentation.
func (e *Engine) GetByDeviceRange(ctx context.Context, deviceID string, from, to int64) ([]models.TelemetryRecord, error) {
	if err := checkDevice(deviceID); err != nil {
		return nil, err
	}
	return e.store.QueryRange(ctx, store.DeviceRange(deviceID, from, to), RangeLimit)
}

func (e *Engine) count(ctx context.Context, f store.Filter) (int64, error) {
	n, err := e.store.Count(ctx, f)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fault.ErrEmpty
	}
	return n, nil
}

// CountAll counts every record. Zero returns fault.ErrEmpty.
func (e *Engine) CountAll(ctx context.Context) (int64, error) {
	return e.count(ctx, store.All())
}

// CountByDevice counts a device's records. Zero returns fault.ErrEmpty.
func (e *Engine) CountByDevice(ctx context.Context, deviceID string) (int64, error) {
	if err := checkDevice(deviceID); err != nil {
		return 0, err
	}
	return e.count(ctx, store.Device(deviceID))
}

// CountByDeviceRange counts a device's records within [from, to]. Zero
// returns fault.ErrEmpty.
func (e *Engine) CountByDeviceRange(ctx context.Context, deviceID string, from, to int64) (int64, error) {
	if err := checkDevice(deviceID); err != nil {
		return 0, err
	}
	return e.count(ctx, store.DeviceRange(deviceID, from, to))
}

// TrendAll returns every time bucket ascending.
func (e *Engine) TrendAll(ctx context.Context) ([]models.TrendBucket, error) {
	return e.store.AggregateTrend(ctx, store.All(), 0)
}

// TrendTopN returns the newest n buckets ascending. n is clamped.
func (e *Engine) TrendTopN(ctx context.Context, n int) ([]models.TrendBucket, error) {
	return e.store.AggregateTrend(ctx, store.All(), ClampLimit(n))
}

// TrendByDevice returns every bucket of a device ascending.
func (e *Engine) TrendByDevice(ctx context.Context, deviceID string) ([]models.TrendBucket, error) {
	if err := checkDevice(deviceID); err != nil {
		return nil, err
	}
	return e.store.AggregateTrend(ctx, store.Device(deviceID), 0)
}

// TrendByDeviceTopN returns the newest n buckets of a device ascending.
func (e *Engine) TrendByDeviceTopN(ctx context.Context, deviceID string, n int) ([]models.TrendBucket, error) {
	if err := checkDevice(deviceID); err != nil {
		return nil, err
	}
	return e.store.AggregateTrend(ctx, store.Device(deviceID), ClampLimit(n))
}

// DropAll removes every record.
func (e *Engine) DropAll(ctx context.Context) (int64, error) {
	return e.store.DropAll(ctx)
}
