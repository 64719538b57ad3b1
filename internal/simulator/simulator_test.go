package simulator_test

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/prompted/iotplatform/internal/broadcast"
	"github.com/prompted/iotplatform/internal/generator"
	"github.com/prompted/iotplatform/internal/httpx"
	"github.com/prompted/iotplatform/internal/models"
	"github.com/prompted/iotplatform/internal/simulator"
)

type fakePlatform struct {
	posts  atomic.Int32
	failAt int32
}

func (p *fakePlatform) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/verifyMe":
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "IoT platform is alive"})
	case "/services/v1/telemetry/kubos":
		n := p.posts.Add(1)
		var rec models.TelemetryRecord
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if n == p.failAt {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]any{"status": 400, "message": "bad"})
			return
		}
		rec.ID = "stored"
		rec.Time = 1_700_000_000
		_ = json.NewEncoder(w).Encode(map[string]any{"status": 200, "message": "ok", "data": rec})
	default:
		http.NotFound(w, r)
	}
}

type countingHeartbeater struct {
	mu   sync.Mutex
	recs []models.TelemetryRecord
}

func (h *countingHeartbeater) Heartbeat(rec models.TelemetryRecord) error {
	h.mu.Lock()
	h.recs = append(h.recs, rec)
	h.mu.Unlock()
	return nil
}

func TestRunPublishesAndAnnounces(t *testing.T) {
	platform := &fakePlatform{failAt: 2}
	srv := httptest.NewServer(platform)
	defer srv.Close()

	hb := &countingHeartbeater{}
	gen := generator.New([]string{"IBEX"}, rand.NewPCG(1, 2))
	client := httpx.NewClient(time.Second, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	simulator.Run(ctx, simulator.Options{
		PlatformURL:   srv.URL,
		Interval:      time.Millisecond,
		ChannelBuffer: 2,
		Ranges:        generator.DefaultRanges,
		Limit:         4,
	}, client, gen, hb)

	if platform.posts.Load() != 4 {
		t.Errorf("posts = %d, want 4", platform.posts.Load())
	}
	// the rejected record is not announced
	if len(hb.recs) != 3 {
		t.Fatalf("heartbeats = %d, want 3", len(hb.recs))
	}
	for _, rec := range hb.recs {
		if rec.ID != "stored" || rec.DeviceID != "IBEX" {
			t.Errorf("heartbeat carried %+v, want the stored record", rec)
		}
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	srv := httptest.NewServer(&fakePlatform{})
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		simulator.Run(ctx, simulator.Options{
			PlatformURL: srv.URL,
			Interval:    10 * time.Millisecond,
			Ranges:      generator.DefaultRanges,
		}, httpx.NewClient(time.Second, 0), generator.New([]string{"IBEX"}, nil), nil)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestHealthy(t *testing.T) {
	srv := httptest.NewServer(&fakePlatform{})
	defer srv.Close()

	client := httpx.NewClient(time.Second, 0)
	if err := simulator.Healthy(context.Background(), client, srv.URL); err != nil {
		t.Errorf("Healthy: %v", err)
	}
	if err := simulator.Healthy(context.Background(), client, srv.URL+"/missing"); err == nil {
		t.Error("expected error for unreachable liveness path")
	}
}

func TestSocketHeartbeatReachesOtherSubscribers(t *testing.T) {
	hub := broadcast.NewHub(nil)
	srv := httptest.NewServer(broadcast.NewServer(hub, 8))
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	listener, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial listener: %v", err)
	}
	defer listener.Close()
	var greet broadcast.Event
	_ = listener.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := listener.ReadJSON(&greet); err != nil {
		t.Fatalf("read greeting: %v", err)
	}

	sock, err := simulator.DialSocket(context.Background(), url)
	if err != nil {
		t.Fatalf("DialSocket: %v", err)
	}
	defer sock.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Size() < 2 {
		if time.Now().After(deadline) {
			t.Fatal("socket never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := sock.Heartbeat(models.TelemetryRecord{DeviceID: "Orion MPCV"}); err != nil {
		t.Fatalf("Heartbeat: %v", err)
	}

	var ev broadcast.Event
	if err := listener.ReadJSON(&ev); err != nil {
		t.Fatalf("read heartbeat: %v", err)
	}
	if ev.Name != broadcast.EventHeartbeat || !strings.Contains(string(ev.Data), "Orion MPCV") {
		t.Errorf("event = %s %s", ev.Name, ev.Data)
	}
}
