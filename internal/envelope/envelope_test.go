package envelope_test

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/prompted/iotplatform/internal/envelope"
	"github.com/prompted/iotplatform/internal/fault"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		kind    string
		message string
	}{
		{
			name:    "client error",
			err:     fault.Invalid("nTimes", "abc", "must be a non-negative integer"),
			status:  400,
			kind:    envelope.TypeClient,
			message: "User-related error encountered",
		},
		{
			name:    "storage error",
			err:     fault.Storage("insert", errors.New("boom")),
			status:  500,
			kind:    envelope.TypeInternal,
			message: "insert failed",
		},
		{
			name:    "empty result",
			err:     fault.ErrEmpty,
			status:  300,
			message: "insert failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := envelope.FromError(tt.err, "insert failed")
			if resp.Status() != tt.status {
				t.Errorf("status = %d, want %d", resp.Status(), tt.status)
			}
			if tt.kind != "" && resp["type"] != tt.kind {
				t.Errorf("type = %v, want %s", resp["type"], tt.kind)
			}
			if tt.kind == "" {
				if _, ok := resp["type"]; ok {
					t.Errorf("empty envelope must not carry a type: %v", resp)
				}
			}
			if resp["message"] != tt.message {
				t.Errorf("message = %v, want %s", resp["message"], tt.message)
			}
		})
	}
}

func TestWriteUsesEnvelopeStatus(t *testing.T) {
	w := httptest.NewRecorder()
	envelope.Write(w, envelope.Empty("nothing here").With("deviceId", "UNKNOWN"))

	if w.Code != 300 {
		t.Fatalf("expected HTTP 300, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}

	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != float64(300) {
		t.Errorf("body status = %v", body["status"])
	}
	if body["deviceId"] != "UNKNOWN" {
		t.Errorf("deviceId = %v", body["deviceId"])
	}
}

func TestErrorBodyShape(t *testing.T) {
	w := httptest.NewRecorder()
	envelope.Write(w, envelope.FromError(fault.Invalid("nLimit", "abc", "must be an integer"), "unused"))

	var body envelope.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != 400 || body.Type != envelope.TypeClient || body.Error == "" {
		t.Errorf("unexpected error body: %+v", body)
	}

	w = httptest.NewRecorder()
	envelope.Write(w, envelope.FromError(fault.ErrEmpty, "nothing stored"))

	var empty envelope.EmptyResponse
	if err := json.NewDecoder(w.Body).Decode(&empty); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if empty.Status != 300 || empty.Message != "nothing stored" {
		t.Errorf("unexpected empty body: %+v", empty)
	}
}
