package broadcast

import (
	"context"
	"log/slog"

	"github.com/prompted/iotplatform/internal/models"
)

// RecordRelay publishes stored telemetry records to every subscriber.
type RecordRelay struct {
	hub *Hub
}

// NewRecordRelay creates a RecordRelay on hub.
func NewRecordRelay(hub *Hub) *RecordRelay {
	return &RecordRelay{hub: hub}
}

// Stored publishes rec as a telemetry event with no origin.
func (r *RecordRelay) Stored(_ context.Context, rec models.TelemetryRecord) {
	ev, err := NewEvent(EventTelemetry, rec)
	if err != nil {
		slog.Error("encode telemetry event", "device_id", rec.DeviceID, "error", err)
		return
	}
	r.hub.Publish(ev, "")
}
