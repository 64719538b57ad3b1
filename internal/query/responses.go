package query

import "github.com/prompted/iotplatform/internal/models"

// RecordsResponse is the body of every record read.
type RecordsResponse struct {
	Status     int                      `json:"status" example:"200"`
	Message    string                   `json:"message" example:"retrieve all telemetry data points"`
	Collection string                   `json:"collection" example:"telemetry"`
	DeviceID   string                   `json:"deviceId,omitempty" example:"IBEX"`
	NLimit     int                      `json:"nLimit,omitempty" example:"50"`
	FromTS     *int64                   `json:"fromTS,omitempty" example:"1700000000"`
	ToTS       *int64                   `json:"toTS,omitempty" example:"1800000000"`
	Data       []models.TelemetryRecord `json:"data"`
}

// CountResponse is the body of a successful total.
type CountResponse struct {
	Status     int    `json:"status" example:"200"`
	Message    string `json:"message" example:"Telemetry metrics updated successfully."`
	Collection string `json:"collection" example:"telemetry"`
	DeviceID   string `json:"deviceId,omitempty" example:"IBEX"`
	FromTS     *int64 `json:"fromTS,omitempty" example:"1700000000"`
	ToTS       *int64 `json:"toTS,omitempty" example:"1800000000"`
	Count      int64  `json:"count" example:"3"`
}

// TrendResponse is the body of a records-per-second trend.
type TrendResponse struct {
	Status     int                  `json:"status" example:"200"`
	Message    string               `json:"message" example:"Telemetry metrics trending updated successfully."`
	Collection string               `json:"collection" example:"telemetry"`
	DeviceID   string               `json:"deviceId,omitempty" example:"IBEX"`
	NLimit     int                  `json:"nLimit,omitempty" example:"20"`
	Trend      []models.TrendBucket `json:"trend"`
}

// DropResponse is the body of an admin cleanup.
type DropResponse struct {
	Status     int    `json:"status" example:"200"`
	Message    string `json:"message" example:"telemetry collection dropped"`
	Collection string `json:"collection" example:"telemetry"`
	Deleted    int64  `json:"deleted" example:"42"`
}
