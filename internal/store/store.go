package store

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/prompted/iotplatform/internal/fault"
	"github.com/prompted/iotplatform/internal/models"
)

// DefaultLimit is applied by QueryRange when no positive limit is given.
const DefaultLimit = 10

// Availability reports whether the backing store is connected.
type Availability interface {
	Available() error
}

// Store provides read and write access to the telemetry table.
type Store struct {
	db    *sql.DB
	avail Availability
	now   func() time.Time
	newID func() string
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the write-time clock.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithAvailability gates every operation on a.
func WithAvailability(a Availability) Option {
	return func(s *Store) { s.avail = a }
}

// NewStore creates a Store.
func NewStore(db *sql.DB, opts ...Option) *Store {
	s := &Store{
		db:    db,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) ready(op string) error {
	if s.avail == nil {
		return nil
	}
	return fault.Storage(op, s.avail.Available())
}

// InsertOne stores rec as a single row. ID, Time and CreatedAt are
// assigned here, immediately before the write.
func (s *Store) InsertOne(ctx context.Context, rec models.TelemetryRecord) (models.TelemetryRecord, error) {
	if err := s.ready("insert"); err != nil {
		return models.TelemetryRecord{}, err
	}

	now := s.now().UTC()
	rec.ID = s.newID()
	rec.Time = now.Unix()
	rec.CreatedAt = now

	_, err := s.db.ExecContext(ctx, queryInsert,
		rec.ID, rec.DeviceID,
		rec.QX, rec.QY, rec.QZ, rec.QW,
		rec.EX, rec.EY, rec.EZ,
		rec.Humidity, rec.Temperature,
		rec.Time, rec.CreatedAt,
	)
	if err != nil {
		return models.TelemetryRecord{}, fault.Storage("insert", err)
	}
	return rec, nil
}

// Count returns the number of records matching f.
func (s *Store) Count(ctx context.Context, f Filter) (int64, error) {
	if err := s.ready("count"); err != nil {
		return 0, err
	}

	where, args := f.where()
	var n int64
	if err := s.db.QueryRowContext(ctx, fmt.Sprintf(queryCount, where), args...).Scan(&n); err != nil {
		return 0, fault.Storage("count", err)
	}
	return n, nil
}

// AggregateTrend counts records per time value. With limit <= 0 every
// bucket is returned ascending; otherwise the newest limit buckets are
// returned, still ascending.
func (s *Store) AggregateTrend(ctx context.Context, f Filter, limit int) ([]models.TrendBucket, error) {
	if err := s.ready("trend"); err != nil {
		return nil, err
	}

	where, args := f.where()
	query := fmt.Sprintf(queryTrendAll, where)
	if limit > 0 {
		args = append(args, limit)
		query = fmt.Sprintf(queryTrendLatest, where, len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fault.Storage("trend", err)
	}
	defer rows.Close()

	buckets := []models.TrendBucket{}
	for rows.Next() {
		var b models.TrendBucket
		if err := rows.Scan(&b.Time, &b.Subtotal); err != nil {
			return nil, fault.Storage("trend", fmt.Errorf("scan bucket: %w", err))
		}
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fault.Storage("trend", err)
	}

	if limit > 0 {
		slices.Reverse(buckets)
	}
	return buckets, nil
}

// QueryRange returns the newest limit records matching f, presented in
// ascending time order. A limit <= 0 means DefaultLimit.
func (s *Store) QueryRange(ctx context.Context, f Filter, limit int) ([]models.TelemetryRecord, error) {
	if err := s.ready("find"); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	where, args := f.where()
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(queryLatest, where, len(args)), args...)
	if err != nil {
		return nil, fault.Storage("find", err)
	}
	defer rows.Close()

	recs := []models.TelemetryRecord{}
	for rows.Next() {
		var r models.TelemetryRecord
		if err := rows.Scan(
			&r.ID, &r.DeviceID,
			&r.QX, &r.QY, &r.QZ, &r.QW,
			&r.EX, &r.EY, &r.EZ,
			&r.Humidity, &r.Temperature,
			&r.Time, &r.CreatedAt,
		); err != nil {
			return nil, fault.Storage("find", fmt.Errorf("scan record: %w", err))
		}
		recs = append(recs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fault.Storage("find", err)
	}

	slices.Reverse(recs)
	return recs, nil
}

// DropAll removes every record and returns how many were deleted.
func (s *Store) DropAll(ctx context.Context) (int64, error) {
	if err := s.ready("drop"); err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, queryDeleteAll)
	if err != nil {
		return 0, fault.Storage("drop", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fault.Storage("drop", err)
	}
	return n, nil
}
