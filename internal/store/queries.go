// Package store is the storage gateway: the only component that talks to
// the telemetry table.
package store

// SQL queries for the telemetry table. %s placeholders take the WHERE
// clause built by Filter.where and never user input.
const (
	queryInsert = `
INSERT INTO telemetry (id, device_id, qx, qy, qz, qw, ex, ey, ez, hum, temp, time, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	queryCount = `SELECT count(*) FROM telemetry%s`

	// queryTrendAll returns every bucket in ascending time order.
	queryTrendAll = `
SELECT time, count(*) AS subtotal
FROM telemetry%s
GROUP BY time
ORDER BY time ASC`

	// queryTrendLatest returns the newest buckets; the caller re-sorts.
	queryTrendLatest = `
SELECT time, count(*) AS subtotal
FROM telemetry%s
GROUP BY time
ORDER BY time DESC
LIMIT $%d`

	// queryLatest returns the newest records; the caller re-sorts.
	queryLatest = `
SELECT id, device_id, qx, qy, qz, qw, ex, ey, ez, hum, temp, time, created_at
FROM telemetry%s
ORDER BY time DESC, created_at DESC
LIMIT $%d`

	queryDeleteAll = `DELETE FROM telemetry`
)
