package ingest

import "github.com/prompted/iotplatform/internal/models"

// BatchResponse is the body of a successful simulated or supplied batch.
type BatchResponse struct {
	Status     int                      `json:"status" example:"200"`
	Message    string                   `json:"message" example:"create all telemetry data points"`
	Collection string                   `json:"collection" example:"telemetry"`
	NTimes     int                      `json:"nTimes" example:"3"`
	Data       []models.TelemetryRecord `json:"data"`
}

// RecordResponse is the body of a successful single insert.
type RecordResponse struct {
	Status     int                    `json:"status" example:"200"`
	Message    string                 `json:"message" example:"insert telemetry data point"`
	Collection string                 `json:"collection" example:"telemetry"`
	Data       models.TelemetryRecord `json:"data"`
}

// FailureResponse is the body of a batch whose writes did not all succeed.
// Counter is the number of writes completed when the first one failed.
type FailureResponse struct {
	Status     int    `json:"status" example:"500"`
	Message    string `json:"message" example:"Cannot insert telemetry data points due to internal system error"`
	Type       string `json:"type" example:"internal"`
	Error      string `json:"error,omitempty"`
	Collection string `json:"collection" example:"telemetry"`
	NTimes     int    `json:"nTimes" example:"4"`
	Counter    int    `json:"counter" example:"1"`
}
