package broadcast_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/prompted/iotplatform/internal/broadcast"
	"github.com/prompted/iotplatform/internal/models"
)

func drain(s *broadcast.Subscriber) []broadcast.Event {
	var out []broadcast.Event
	for {
		select {
		case ev, ok := <-s.Events():
			if !ok {
				return out
			}
			out = append(out, ev)
		default:
			return out
		}
	}
}

func register(t *testing.T, h *broadcast.Hub, n, buffer int) []*broadcast.Subscriber {
	t.Helper()
	subs := make([]*broadcast.Subscriber, n)
	for i := range subs {
		subs[i] = broadcast.NewSubscriber(buffer)
		if err := h.Register(subs[i]); err != nil {
			t.Fatalf("register: %v", err)
		}
	}
	return subs
}

func TestPublishSkipsOrigin(t *testing.T) {
	h := broadcast.NewHub(nil)
	subs := register(t, h, 3, 8)
	ev, _ := broadcast.NewEvent(broadcast.EventHeartbeat, map[string]int{"t": 1})

	if n := h.Publish(ev, subs[0].ID()); n != 2 {
		t.Fatalf("delivered = %d, want 2", n)
	}

	if got := drain(subs[0]); len(got) != 0 {
		t.Errorf("origin received %d events", len(got))
	}
	for _, s := range subs[1:] {
		got := drain(s)
		if len(got) != 1 || got[0].Name != broadcast.EventHeartbeat {
			t.Errorf("subscriber got %v, want exactly one heartbeat", got)
		}
	}
}

func TestSingleSubscriberReceivesNothing(t *testing.T) {
	h := broadcast.NewHub(nil)
	subs := register(t, h, 1, 8)
	ev, _ := broadcast.NewEvent(broadcast.EventHeartbeat, "x")

	if n := h.Publish(ev, subs[0].ID()); n != 0 {
		t.Errorf("delivered = %d, want 0", n)
	}
}

func TestLifecycle(t *testing.T) {
	h := broadcast.NewHub(nil)
	s := broadcast.NewSubscriber(4)
	if s.State() != broadcast.StateConnecting {
		t.Fatalf("initial state = %s", s.State())
	}

	if err := h.Register(s); err != nil {
		t.Fatalf("register: %v", err)
	}
	if s.State() != broadcast.StateConnected || h.Size() != 1 {
		t.Fatalf("state = %s size = %d", s.State(), h.Size())
	}

	h.Unregister(s.ID())
	h.Unregister(s.ID())
	if s.State() != broadcast.StateDisconnected || h.Size() != 0 {
		t.Fatalf("state = %s size = %d", s.State(), h.Size())
	}
	if _, ok := <-s.Events(); ok {
		t.Error("queue must be closed after unregister")
	}

	if err := h.Register(s); !errors.Is(err, broadcast.ErrDisconnected) {
		t.Errorf("re-register err = %v, want ErrDisconnected", err)
	}

	ev, _ := broadcast.NewEvent(broadcast.EventHeartbeat, "x")
	if n := h.Publish(ev, ""); n != 0 {
		t.Errorf("disconnected subscriber received a delivery")
	}
}

func TestFullQueueDrops(t *testing.T) {
	h := broadcast.NewHub(nil)
	subs := register(t, h, 2, 1)
	ev, _ := broadcast.NewEvent(broadcast.EventHeartbeat, "x")

	h.Publish(ev, subs[0].ID())
	if n := h.Publish(ev, subs[0].ID()); n != 0 {
		t.Errorf("second publish delivered %d, want 0 on a full queue", n)
	}
	if got := drain(subs[1]); len(got) != 1 {
		t.Errorf("got %d events, want 1", len(got))
	}
}

func TestConcurrentPublishAndChurn(t *testing.T) {
	h := broadcast.NewHub(nil)
	stable := register(t, h, 4, 1024)
	ev, _ := broadcast.NewEvent(broadcast.EventHeartbeat, "x")

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				h.Publish(ev, stable[0].ID())
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range 100 {
			s := broadcast.NewSubscriber(1)
			_ = h.Register(s)
			h.Unregister(s.ID())
		}
	}()
	wg.Wait()

	if got := drain(stable[0]); len(got) != 0 {
		t.Errorf("origin received %d events", len(got))
	}
	for _, s := range stable[1:] {
		if got := drain(s); len(got) != 400 {
			t.Errorf("subscriber got %d events, want 400", len(got))
		}
	}
}

func TestRecordRelayPublishesToAll(t *testing.T) {
	h := broadcast.NewHub(nil)
	subs := register(t, h, 2, 4)
	relay := broadcast.NewRecordRelay(h)

	relay.Stored(context.Background(), models.TelemetryRecord{ID: "r1", DeviceID: "IBEX", Time: 9})

	for _, s := range subs {
		got := drain(s)
		if len(got) != 1 || got[0].Name != broadcast.EventTelemetry {
			t.Fatalf("got %v", got)
		}
		var rec models.TelemetryRecord
		if err := json.Unmarshal(got[0].Data, &rec); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if rec.DeviceID != "IBEX" || rec.Time != 9 {
			t.Errorf("record = %+v", rec)
		}
	}
}

func TestClose(t *testing.T) {
	h := broadcast.NewHub(nil)
	subs := register(t, h, 3, 1)
	h.Close()
	if h.Size() != 0 {
		t.Fatalf("size = %d", h.Size())
	}
	for _, s := range subs {
		if s.State() != broadcast.StateDisconnected {
			t.Errorf("state = %s", s.State())
		}
	}
}
