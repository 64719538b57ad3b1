// Package db provides helpers for connecting to PostgreSQL, running
// migrations, and tracking connection state.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
)

// Connect opens a connection pool to PostgreSQL and verifies connectivity.
func Connect(ctx context.Context, dsn string, maxOpen int) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}

	if maxOpen < 1 {
		maxOpen = 25
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(max(maxOpen/5, 1))
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	slog.Info("database connected", "dsn_host", sanitizeDSN(dsn))
	return db, nil
}

// Healthy returns nil when the database is reachable.
func Healthy(ctx context.Context, db *sql.DB) error {
	return db.PingContext(ctx)
}

// sanitizeDSN reduces the DSN to host and database for logging.
func sanitizeDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.Host == "" {
		return "unparseable"
	}
	return u.Host + u.Path
}
