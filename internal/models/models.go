// Package models contains shared domain structs used across services.
package models

import "time"

// HealthResponse is returned by /healthz and /readyz endpoints.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// TelemetryRecord is a single device reading. Time and CreatedAt are
// always assigned by the storage gateway at write time.
type TelemetryRecord struct {
	ID          string    `json:"id"`
	DeviceID    string    `json:"deviceId"`
	QX          float64   `json:"qx"`
	QY          float64   `json:"qy"`
	QZ          float64   `json:"qz"`
	QW          float64   `json:"qw"`
	EX          float64   `json:"ex"`
	EY          float64   `json:"ey"`
	EZ          float64   `json:"ez"`
	Humidity    float64   `json:"hum"`
	Temperature float64   `json:"temp"`
	Time        int64     `json:"time"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TrendBucket is the number of records sharing one event second.
type TrendBucket struct {
	Time     int64 `json:"time"`
	Subtotal int64 `json:"subtotal"`
}
