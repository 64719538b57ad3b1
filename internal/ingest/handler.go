package ingest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prompted/iotplatform/internal/envelope"
	"github.com/prompted/iotplatform/internal/fault"
	"github.com/prompted/iotplatform/internal/generator"
	"github.com/prompted/iotplatform/internal/models"
)

const (
	collection  = "telemetry"
	maxBodySize = 8 << 20

	msgInternal = "Cannot insert telemetry data points due to internal system error"
)

// Handler exposes the ingestion HTTP endpoints.
type Handler struct {
	coord  *Coordinator
	ranges generator.Ranges
}

// NewHandler creates a Handler. Simulated batches draw values from ranges.
func NewHandler(coord *Coordinator, ranges generator.Ranges) *Handler {
	return &Handler{coord: coord, ranges: ranges}
}

// ---------------------------------------------------------------------------
// POST /services/v1/simulation/telemetry/kubos/{nTimes}
// ---------------------------------------------------------------------------

// Simulate godoc
//
//	@Summary		Generate and store simulated telemetry
//	@Description	Generates nTimes random records (clamped to the configured maximum) and stores them
//	@Description	with at most five concurrent writes. The response is sent once every write has finished.
//	@Tags			ingest
//	@Produce		json
//	@Param			nTimes	path		string	true	"Number of records"	example(3)
//	@Success		200		{object}	BatchResponse
//	@Failure		400		{object}	envelope.ErrorResponse
//	@Failure		500		{object}	FailureResponse
//	@Router			/services/v1/simulation/telemetry/kubos/{nTimes} [post]
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "nTimes")

	res, err := h.coord.IngestSimulated(r.Context(), raw, h.ranges)
	if err != nil {
		envelope.Write(w, envelope.FromError(err, msgInternal).
			With("collection", collection).
			With("nTimes", raw))
		return
	}
	h.writeBatch(w, res, "create all telemetry data points")
}

// ---------------------------------------------------------------------------
// POST /services/v1/telemetry/kubos
// ---------------------------------------------------------------------------

// InsertOne godoc
//
//	@Summary		Store one telemetry record
//	@Description	Stores the posted record. id, time and createdAt are assigned by the server.
//	@Tags			ingest
//	@Accept			json
//	@Produce		json
//	@Param			record	body		models.TelemetryRecord	true	"Telemetry record"
//	@Success		200		{object}	RecordResponse
//	@Failure		400		{object}	envelope.ErrorResponse
//	@Failure		500		{object}	envelope.ErrorResponse
//	@Router			/services/v1/telemetry/kubos [post]
func (h *Handler) InsertOne(w http.ResponseWriter, r *http.Request) {
	var rec models.TelemetryRecord
	if err := decodeBody(w, r, &rec); err != nil {
		envelope.Write(w, envelope.FromError(err, msgInternal))
		return
	}

	res, err := h.coord.IngestRecords(r.Context(), []models.TelemetryRecord{rec})
	if err != nil {
		envelope.Write(w, envelope.FromError(err, msgInternal))
		return
	}
	if res.Failed() {
		slog.Error("insert telemetry", "device_id", rec.DeviceID, "error", res.Failure.Err)
		envelope.Write(w, envelope.FromError(res.Failure.Err, msgInternal).
			With("collection", collection).
			With("deviceId", rec.DeviceID))
		return
	}

	envelope.Write(w, envelope.OK("insert telemetry data point").
		With("collection", collection).
		With("data", res.Records[0]))
}

// ---------------------------------------------------------------------------
// POST /services/v1/telemetry/kubos/batch
// ---------------------------------------------------------------------------

// InsertBatch godoc
//
//	@Summary		Store a batch of telemetry records
//	@Description	Stores every posted record through the bounded write window.
//	@Tags			ingest
//	@Accept			json
//	@Produce		json
//	@Param			records	body		[]models.TelemetryRecord	true	"Telemetry records"
//	@Success		200		{object}	BatchResponse
//	@Failure		400		{object}	envelope.ErrorResponse
//	@Failure		500		{object}	FailureResponse
//	@Router			/services/v1/telemetry/kubos/batch [post]
func (h *Handler) InsertBatch(w http.ResponseWriter, r *http.Request) {
	var recs []models.TelemetryRecord
	if err := decodeBody(w, r, &recs); err != nil {
		envelope.Write(w, envelope.FromError(err, msgInternal))
		return
	}

	res, err := h.coord.IngestRecords(r.Context(), recs)
	if err != nil {
		envelope.Write(w, envelope.FromError(err, msgInternal).With("nTimes", len(recs)))
		return
	}
	h.writeBatch(w, res, "insert all telemetry data points")
}

func (h *Handler) writeBatch(w http.ResponseWriter, res BatchResult, okMsg string) {
	if res.Failed() {
		envelope.Write(w, envelope.FromError(res.Failure.Err, msgInternal).
			With("collection", collection).
			With("nTimes", res.Failure.NTimes).
			With("counter", res.Failure.Counter))
		return
	}
	envelope.Write(w, envelope.OK(okMsg).
		With("collection", collection).
		With("nTimes", res.NTimes).
		With("data", res.Records))
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fault.Invalid("body", "", "request body too large")
		}
		return fault.Invalid("body", "", "malformed JSON: "+err.Error())
	}
	return nil
}
