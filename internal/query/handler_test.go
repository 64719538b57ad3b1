package query_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/prompted/iotplatform/internal/fault"
	"github.com/prompted/iotplatform/internal/query"
)

func newRouter(m *memReader) http.Handler {
	h := query.NewHandler(query.NewEngine(m, 9999))
	r := chi.NewRouter()
	r.Get("/services/v1/telemetry/kubos", h.GetAll)
	r.Get("/services/v1/telemetry/kubos/{deviceId}/{nLimit}", h.GetByDeviceLimit)
	r.Get("/services/v1/telemetry/{deviceId}/{fromTS}/{toTS}", h.GetByDeviceRange)
	r.Get("/services/v1/admin/metrics/telemetry/total/all", h.CountAll)
	r.Get("/services/v1/admin/metrics/telemetry/total/{deviceId}", h.CountByDevice)
	r.Get("/services/v1/admin/metrics/telemetry/total/{deviceId}/{fromTS}/{toTS}", h.CountByDeviceRange)
	r.Get("/services/v1/admin/metrics/trend/telemetry/all", h.TrendAll)
	r.Get("/services/v1/admin/metrics/trend/telemetry/{nLimit}", h.TrendTopN)
	r.Get("/services/v1/admin/metrics/trend/telemetry/by/{deviceId}", h.TrendByDevice)
	r.Get("/services/v1/admin/metrics/trend/telemetry/{deviceId}/{nLimit}", h.TrendByDeviceTopN)
	r.Post("/services/v1/admin/cleanup/telemetry", h.DropAll)
	return r
}

func get(t *testing.T, h http.Handler, method, path string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	if body["status"] != float64(w.Code) {
		t.Errorf("%s: envelope status %v != HTTP %d", path, body["status"], w.Code)
	}
	return w.Code, body
}

func decode(t *testing.T, h http.Handler, path string, out any) {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	if err := json.NewDecoder(w.Body).Decode(out); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
}

func TestQueryRoutes(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		status int
		data   int    // -1 skips the check
		key    string // defaults to "data"
	}{
		{name: "all", path: "/services/v1/telemetry/kubos", status: 200, data: 4},
		{name: "device limit", path: "/services/v1/telemetry/kubos/IBEX/2", status: 200, data: 2},
		{name: "device limit clamped", path: "/services/v1/telemetry/kubos/IBEX/50000", status: 200, data: 3},
		{name: "device limit malformed", path: "/services/v1/telemetry/kubos/IBEX/abc", status: 400, data: -1},
		{name: "device range", path: "/services/v1/telemetry/IBEX/100/101", status: 200, data: 2},
		{name: "device range inverted", path: "/services/v1/telemetry/IBEX/200/100", status: 200, data: 0},
		{name: "device range bad bound", path: "/services/v1/telemetry/IBEX/-1/100", status: 400, data: -1},
		{name: "total all", path: "/services/v1/admin/metrics/telemetry/total/all", status: 200, data: -1},
		{name: "total device", path: "/services/v1/admin/metrics/telemetry/total/IBEX", status: 200, data: -1},
		{name: "total unknown device", path: "/services/v1/admin/metrics/telemetry/total/UNKNOWN", status: 300, data: -1},
		{name: "total device range", path: "/services/v1/admin/metrics/telemetry/total/IBEX/100/100", status: 200, data: -1},
		{name: "total device range bad", path: "/services/v1/admin/metrics/telemetry/total/IBEX/x/100", status: 400, data: -1},
		{name: "trend all", path: "/services/v1/admin/metrics/trend/telemetry/all", status: 200, data: 3, key: "trend"},
		{name: "trend top", path: "/services/v1/admin/metrics/trend/telemetry/2", status: 200, data: 2, key: "trend"},
		{name: "trend by device", path: "/services/v1/admin/metrics/trend/telemetry/by/Kubos01", status: 200, data: 1, key: "trend"},
		{name: "trend device top", path: "/services/v1/admin/metrics/trend/telemetry/IBEX/1", status: 200, data: 1, key: "trend"},
	}

	m := seeded("IBEX", 100, 101, 102)
	m.recs = append(m.recs, seeded("Kubos01", 101).recs...)
	h := newRouter(m)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := get(t, h, http.MethodGet, tt.path)
			if code != tt.status {
				t.Fatalf("status = %d, want %d: %v", code, tt.status, body)
			}
			if tt.status == 400 && body["type"] != "client" {
				t.Errorf("type = %v, want client", body["type"])
			}
			if tt.data >= 0 {
				key := tt.key
				if key == "" {
					key = "data"
				}
				data, ok := body[key].([]any)
				if !ok {
					t.Fatalf("%s missing: %v", key, body)
				}
				if len(data) != tt.data {
					t.Errorf("data len = %d, want %d", len(data), tt.data)
				}
			}
		})
	}
}

func TestCountTotals(t *testing.T) {
	m := seeded("IBEX", 100, 101, 102)
	h := newRouter(m)

	var total query.CountResponse
	decode(t, h, "/services/v1/admin/metrics/telemetry/total/all", &total)
	if total.Status != 200 || total.Count != 3 || total.Collection != "telemetry" {
		t.Errorf("unexpected total: %+v", total)
	}

	var byDevice query.CountResponse
	decode(t, h, "/services/v1/admin/metrics/telemetry/total/IBEX/100/101", &byDevice)
	if byDevice.Count != 2 || byDevice.DeviceID != "IBEX" || byDevice.FromTS == nil || *byDevice.FromTS != 100 {
		t.Errorf("unexpected windowed total: %+v", byDevice)
	}

	_, body := get(t, h, http.MethodGet, "/services/v1/admin/metrics/telemetry/total/UNKNOWN")
	if body["message"] != "Cannot find telemetry data for device id UNKNOWN" {
		t.Errorf("message = %v", body["message"])
	}
	if _, ok := body["type"]; ok {
		t.Errorf("empty result must not be typed as an error: %v", body)
	}
}

func TestTrendUsesTrendField(t *testing.T) {
	m := seeded("IBEX", 100, 100, 101)
	h := newRouter(m)

	var resp query.TrendResponse
	decode(t, h, "/services/v1/admin/metrics/trend/telemetry/by/IBEX", &resp)
	if len(resp.Trend) != 2 || resp.Trend[0].Subtotal != 2 || resp.Trend[1].Subtotal != 1 {
		t.Errorf("unexpected trend: %+v", resp)
	}

	_, body := get(t, h, http.MethodGet, "/services/v1/admin/metrics/trend/telemetry/all")
	if _, ok := body["data"]; ok {
		t.Errorf("trend must not be sent under data: %v", body)
	}
}

func TestDropThenCount(t *testing.T) {
	m := seeded("IBEX", 100, 101)
	h := newRouter(m)

	code, body := get(t, h, http.MethodPost, "/services/v1/admin/cleanup/telemetry")
	if code != 200 || body["deleted"] != float64(2) {
		t.Fatalf("drop: %d %v", code, body)
	}

	code, body = get(t, h, http.MethodGet, "/services/v1/admin/metrics/telemetry/total/all")
	if code != 300 {
		t.Fatalf("count after drop: %d %v", code, body)
	}
	if body["message"] != "Cannot find telemetry data. The database is empty." {
		t.Errorf("message = %v", body["message"])
	}
}

func TestStorageFailureIsInternal(t *testing.T) {
	m := &memReader{err: fault.Storage("find", fault.ErrUnavailable)}
	code, body := get(t, newRouter(m), http.MethodGet, "/services/v1/telemetry/kubos")
	if code != 500 || body["type"] != "internal" {
		t.Errorf("status = %d body = %v", code, body)
	}
}
