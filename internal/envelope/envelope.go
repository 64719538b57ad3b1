// Package envelope writes the JSON response envelope used by every
// platform endpoint: {status, message, ...fields}. The HTTP status code
// always equals the envelope status.
package envelope

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prompted/iotplatform/internal/fault"
)

// Envelope status codes.
const (
	StatusOK       = http.StatusOK
	StatusEmpty    = http.StatusMultipleChoices
	StatusClient   = http.StatusBadRequest
	StatusInternal = http.StatusInternalServerError
)

// Error envelope types.
const (
	TypeClient   = "client"
	TypeInternal = "internal"
)

const clientMessage = "User-related error encountered"

// Response is an envelope. Keys beyond status and message are
// operation-specific.
type Response map[string]any

// ErrorResponse documents a client or internal error envelope.
type ErrorResponse struct {
	Status  int    `json:"status" example:"400"`
	Message string `json:"message" example:"User-related error encountered"`
	Type    string `json:"type" example:"client"`
	Error   string `json:"error,omitempty"`
}

// EmptyResponse documents a 300 envelope for a query that matched nothing.
type EmptyResponse struct {
	Status  int    `json:"status" example:"300"`
	Message string `json:"message" example:"Cannot find telemetry data. The database is empty."`
}

// OK returns a 200 envelope.
func OK(message string) Response {
	return Response{"status": StatusOK, "message": message}
}

// Empty returns a 300 envelope for a query that matched nothing.
func Empty(message string) Response {
	return Response{"status": StatusEmpty, "message": message}
}

// With sets key on the envelope and returns it for chaining.
func (r Response) With(key string, v any) Response {
	r[key] = v
	return r
}

// Status returns the envelope status, defaulting to 500 when unset.
func (r Response) Status() int {
	if s, ok := r["status"].(int); ok {
		return s
	}
	return StatusInternal
}

// FromError classifies err. Client errors become 400/client, the empty
// sentinel becomes 300, everything else becomes 500/internal carrying
// internalMsg.
func FromError(err error, internalMsg string) Response {
	var ce *fault.ClientError
	switch {
	case errors.As(err, &ce):
		return Response{
			"status":  StatusClient,
			"message": clientMessage,
			"type":    TypeClient,
			"error":   ce.Error(),
		}
	case errors.Is(err, fault.ErrEmpty):
		return Empty(internalMsg)
	default:
		resp := Response{
			"status":  StatusInternal,
			"message": internalMsg,
			"type":    TypeInternal,
		}
		if err != nil {
			resp["error"] = err.Error()
		}
		return resp
	}
}

// Write encodes resp with its own status as the HTTP status.
func Write(w http.ResponseWriter, resp Response) {
	WriteJSON(w, resp.Status(), resp)
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
