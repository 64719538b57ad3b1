package query

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prompted/iotplatform/internal/envelope"
	"github.com/prompted/iotplatform/internal/fault"
)

const (
	collection = "telemetry"

	msgInternal = "Cannot retrieve telemetry data due to internal system error"
	msgRetrieve = "retrieve all telemetry data points"
	msgTotal    = "Telemetry metrics updated successfully."
	msgTrend    = "Telemetry metrics trending updated successfully."
	msgDropped  = "telemetry collection dropped"
	msgEmptyDB  = "Cannot find telemetry data. The database is empty."
)

// Handler exposes the query and admin HTTP endpoints.
type Handler struct {
	engine *Engine
}

// NewHandler creates a Handler backed by the given Engine.
func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

// failure maps err to an envelope; fault.ErrEmpty uses emptyMsg.
func failure(err error, emptyMsg string) envelope.Response {
	if errors.Is(err, fault.ErrEmpty) {
		return envelope.Empty(emptyMsg)
	}
	if !fault.IsClient(err) {
		slog.Error("query failed", "error", err)
	}
	return envelope.FromError(err, msgInternal)
}

func emptyForDevice(deviceID string) string {
	return fmt.Sprintf("Cannot find telemetry data for device id %s", deviceID)
}

// ---------------------------------------------------------------------------
// Records
// ---------------------------------------------------------------------------

// GetAll godoc
//
//	@Summary		List telemetry
//	@Description	Returns the newest records up to the configured maximum, in ascending time order.
//	@Tags			telemetry
//	@Produce		json
//	@Success		200	{object}	RecordsResponse
//	@Failure		500	{object}	envelope.ErrorResponse
//	@Router			/services/v1/telemetry/kubos [get]
func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	recs, err := h.engine.GetAll(r.Context())
	if err != nil {
		envelope.Write(w, failure(err, msgEmptyDB))
		return
	}
	envelope.Write(w, envelope.OK(msgRetrieve).
		With("collection", collection).
		With("data", recs))
}

// GetByDeviceLimit godoc
//
//	@Summary		Latest telemetry for a device
//	@Description	Returns the newest nLimit records for the device in ascending time order. nLimit is clamped to [1, 9999].
//	@Tags			telemetry
//	@Produce		json
//	@Param			deviceId	path		string	true	"Device ID"	example(IBEX)
//	@Param			nLimit		path		string	true	"Limit"		example(50)
//	@Success		200			{object}	RecordsResponse
//	@Failure		400			{object}	envelope.ErrorResponse
//	@Failure		500			{object}	envelope.ErrorResponse
//	@Router			/services/v1/telemetry/kubos/{deviceId}/{nLimit} [get]
func (h *Handler) GetByDeviceLimit(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "deviceId")
	limit, err := ParseLimit(chi.URLParam(r, "nLimit"))
	if err != nil {
		envelope.Write(w, failure(err, "").With("deviceId", deviceID))
		return
	}

	recs, err := h.engine.GetByDeviceLimit(r.Context(), deviceID, limit)
	if err != nil {
		envelope.Write(w, failure(err, emptyForDevice(deviceID)).With("deviceId", deviceID))
		return
	}
	envelope.Write(w, envelope.OK(msgRetrieve).
		With("collection", collection).
		With("deviceId", deviceID).
		With("nLimit", limit).
		With("data", recs))
}

// GetByDeviceRange godoc
//
//	@Summary		Telemetry for a device in a time window
//	@Description	Returns at most 10 records for the device with fromTS <= time <= toTS (Unix seconds),
//	@Description	keeping the newest and presenting them in ascending time order.
//	@Tags			telemetry
//	@Produce		json
//	@Param			deviceId	path		string	true	"Device ID"				example(IBEX)
//	@Param			fromTS		path		string	true	"Window start (Unix s)"	example(1700000000)
//	@Param			toTS		path		string	true	"Window end (Unix s)"	example(1800000000)
//	@Success		200			{object}	RecordsResponse
//	@Failure		400			{object}	envelope.ErrorResponse
//	@Failure		500			{object}	envelope.ErrorResponse
//	@Router			/services/v1/telemetry/{deviceId}/{fromTS}/{toTS} [get]
func (h *Handler) GetByDeviceRange(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "deviceId")
	from, to, err := parseWindow(r)
	if err != nil {
		envelope.Write(w, failure(err, "").With("deviceId", deviceID))
		return
	}

	recs, err := h.engine.GetByDeviceRange(r.Context(), deviceID, from, to)
	if err != nil {
		envelope.Write(w, failure(err, emptyForDevice(deviceID)).With("deviceId", deviceID))
		return
	}
	envelope.Write(w, envelope.OK(msgRetrieve).
		With("collection", collection).
		With("deviceId", deviceID).
		With("fromTS", from).
		With("toTS", to).
		With("data", recs))
}

// ---------------------------------------------------------------------------
// Totals
// ---------------------------------------------------------------------------

// CountAll godoc
//
//	@Summary		Total record count
//	@Description	Returns the total number of records. An empty store answers with status 300.
//	@Tags			metrics
//	@Produce		json
//	@Success		200	{object}	CountResponse
//	@Success		300	{object}	envelope.EmptyResponse
//	@Failure		500	{object}	envelope.ErrorResponse
//	@Router			/services/v1/admin/metrics/telemetry/total/all [get]
func (h *Handler) CountAll(w http.ResponseWriter, r *http.Request) {
	n, err := h.engine.CountAll(r.Context())
	if err != nil {
		envelope.Write(w, failure(err, msgEmptyDB).With("collection", collection))
		return
	}
	envelope.Write(w, envelope.OK(msgTotal).
		With("collection", collection).
		With("count", n))
}

// CountByDevice godoc
//
//	@Summary		Record count for a device
//	@Tags			metrics
//	@Produce		json
//	@Param			deviceId	path		string	true	"Device ID"	example(IBEX)
//	@Success		200			{object}	CountResponse
//	@Success		300			{object}	envelope.EmptyResponse
//	@Failure		500			{object}	envelope.ErrorResponse
//	@Router			/services/v1/admin/metrics/telemetry/total/{deviceId} [get]
func (h *Handler) CountByDevice(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "deviceId")

	n, err := h.engine.CountByDevice(r.Context(), deviceID)
	if err != nil {
		envelope.Write(w, failure(err, emptyForDevice(deviceID)).
			With("collection", collection).
			With("deviceId", deviceID))
		return
	}
	envelope.Write(w, envelope.OK(msgTotal).
		With("collection", collection).
		With("deviceId", deviceID).
		With("count", n))
}

// CountByDeviceRange godoc
//
//	@Summary		Record count for a device in a time window
//	@Tags			metrics
//	@Produce		json
//	@Param			deviceId	path		string	true	"Device ID"				example(IBEX)
//	@Param			fromTS		path		string	true	"Window start (Unix s)"	example(1700000000)
//	@Param			toTS		path		string	true	"Window end (Unix s)"	example(1800000000)
//	@Success		200			{object}	CountResponse
//	@Success		300			{object}	envelope.EmptyResponse
//	@Failure		400			{object}	envelope.ErrorResponse
//	@Failure		500			{object}	envelope.ErrorResponse
//	@Router			/services/v1/admin/metrics/telemetry/total/{deviceId}/{fromTS}/{toTS} [get]
func (h *Handler) CountByDeviceRange(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "deviceId")
	from, to, err := parseWindow(r)
	if err != nil {
		envelope.Write(w, failure(err, "").With("deviceId", deviceID))
		return
	}

	n, err := h.engine.CountByDeviceRange(r.Context(), deviceID, from, to)
	if err != nil {
		msg := fmt.Sprintf("Cannot find telemetry data for device id %s between %d and %d", deviceID, from, to)
		envelope.Write(w, failure(err, msg).
			With("collection", collection).
			With("deviceId", deviceID).
			With("fromTS", from).
			With("toTS", to))
		return
	}
	envelope.Write(w, envelope.OK(msgTotal).
		With("collection", collection).
		With("deviceId", deviceID).
		With("fromTS", from).
		With("toTS", to).
		With("count", n))
}

// ---------------------------------------------------------------------------
// Trends
// ---------------------------------------------------------------------------

// TrendAll godoc
//
//	@Summary		Records per second
//	@Description	Returns {time, subtotal} buckets for every second holding records, ascending.
//	@Tags			metrics
//	@Produce		json
//	@Success		200	{object}	TrendResponse
//	@Failure		500	{object}	envelope.ErrorResponse
//	@Router			/services/v1/admin/metrics/trend/telemetry/all [get]
func (h *Handler) TrendAll(w http.ResponseWriter, r *http.Request) {
	buckets, err := h.engine.TrendAll(r.Context())
	if err != nil {
		envelope.Write(w, failure(err, msgEmptyDB))
		return
	}
	envelope.Write(w, envelope.OK(msgTrend).
		With("collection", collection).
		With("trend", buckets))
}

// TrendTopN godoc
//
//	@Summary		Newest records-per-second buckets
//	@Description	Returns the newest nLimit buckets in ascending order. nLimit is clamped to [1, 9999].
//	@Tags			metrics
//	@Produce		json
//	@Param			nLimit	path		string	true	"Limit"	example(20)
//	@Success		200		{object}	TrendResponse
//	@Failure		400		{object}	envelope.ErrorResponse
//	@Failure		500		{object}	envelope.ErrorResponse
//	@Router			/services/v1/admin/metrics/trend/telemetry/{nLimit} [get]
func (h *Handler) TrendTopN(w http.ResponseWriter, r *http.Request) {
	limit, err := ParseLimit(chi.URLParam(r, "nLimit"))
	if err != nil {
		envelope.Write(w, failure(err, ""))
		return
	}

	buckets, err := h.engine.TrendTopN(r.Context(), limit)
	if err != nil {
		envelope.Write(w, failure(err, msgEmptyDB))
		return
	}
	envelope.Write(w, envelope.OK(msgTrend).
		With("collection", collection).
		With("nLimit", limit).
		With("trend", buckets))
}

// TrendByDevice godoc
//
//	@Summary		Records per second for a device
//	@Tags			metrics
//	@Produce		json
//	@Param			deviceId	path		string	true	"Device ID"	example(IBEX)
//	@Success		200			{object}	TrendResponse
//	@Failure		500			{object}	envelope.ErrorResponse
//	@Router			/services/v1/admin/metrics/trend/telemetry/by/{deviceId} [get]
func (h *Handler) TrendByDevice(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "deviceId")

	buckets, err := h.engine.TrendByDevice(r.Context(), deviceID)
	if err != nil {
		envelope.Write(w, failure(err, emptyForDevice(deviceID)).With("deviceId", deviceID))
		return
	}
	envelope.Write(w, envelope.OK(msgTrend).
		With("collection", collection).
		With("deviceId", deviceID).
		With("trend", buckets))
}

// TrendByDeviceTopN godoc
//
//	@Summary		Newest records-per-second buckets for a device
//	@Tags			metrics
//	@Produce		json
//	@Param			deviceId	path		string	true	"Device ID"	example(IBEX)
//	@Param			nLimit		path		string	true	"Limit"		example(20)
//	@Success		200			{object}	TrendResponse
//	@Failure		400			{object}	envelope.ErrorResponse
//	@Failure		500			{object}	envelope.ErrorResponse
//	@Router			/services/v1/admin/metrics/trend/telemetry/{deviceId}/{nLimit} [get]
func (h *Handler) TrendByDeviceTopN(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "deviceId")
	limit, err := ParseLimit(chi.URLParam(r, "nLimit"))
	if err != nil {
		envelope.Write(w, failure(err, "").With("deviceId", deviceID))
		return
	}

	buckets, err := h.engine.TrendByDeviceTopN(r.Context(), deviceID, limit)
	if err != nil {
		envelope.Write(w, failure(err, emptyForDevice(deviceID)).With("deviceId", deviceID))
		return
	}
	envelope.Write(w, envelope.OK(msgTrend).
		With("collection", collection).
		With("deviceId", deviceID).
		With("nLimit", limit).
		With("trend", buckets))
}

// ---------------------------------------------------------------------------
// Admin
// ---------------------------------------------------------------------------

// DropAll godoc
//
//	@Summary		Delete all telemetry
//	@Tags			admin
//	@Produce		json
//	@Success		200	{object}	DropResponse
//	@Failure		500	{object}	envelope.ErrorResponse
//	@Router			/services/v1/admin/cleanup/telemetry [post]
func (h *Handler) DropAll(w http.ResponseWriter, r *http.Request) {
	n, err := h.engine.DropAll(r.Context())
	if err != nil {
		envelope.Write(w, failure(err, msgEmptyDB).With("collection", collection))
		return
	}
	slog.Info("telemetry collection dropped", "deleted", n)
	envelope.Write(w, envelope.OK(msgDropped).
		With("collection", collection).
		With("deleted", n))
}

// parseWindow reads fromTS and toTS. An inverted window is allowed and
// matches nothing.
func parseWindow(r *http.Request) (from, to int64, err error) {
	from, err = ParseBound("fromTS", chi.URLParam(r, "fromTS"))
	if err != nil {
		return 0, 0, err
	}
	to, err = ParseBound("toTS", chi.URLParam(r, "toTS"))
	if err != nil {
		return 0, 0, err
	}
	return from, to, nil
}
