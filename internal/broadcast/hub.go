// Package broadcast fans events out to live subscribers. Events published
// by a subscriber go to every other connected subscriber.
package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/prompted/iotplatform/internal/metrics"
)

// Event names.
const (
	EventConnection = "connection"
	EventHeartbeat  = "heartbeat"
	EventTelemetry  = "telemetry"
)

// Event is the wire frame exchanged with subscribers.
type Event struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewEvent marshals data into an Event.
func NewEvent(name string, data any) (Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Event{}, err
	}
	return Event{Name: name, Data: raw}, nil
}

// State is a subscriber lifecycle state.
type State int32

const (
	StateConnecting State = iota
	StateConnected
	StateDisconnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// ErrDisconnected is returned when registering a subscriber that already
// left.
var ErrDisconnected = errors.New("subscriber disconnected")

// Subscriber is one live connection's outbound queue.
type Subscriber struct {
	id    string
	state atomic.Int32
	out   chan Event
	once  sync.Once
}

// NewSubscriber creates a subscriber in the connecting state with an
// outbound queue of the given size.
func NewSubscriber(buffer int) *Subscriber {
	if buffer < 1 {
		buffer = 1
	}
	return &Subscriber{id: uuid.NewString(), out: make(chan Event, buffer)}
}

// ID returns the subscriber id.
func (s *Subscriber) ID() string { return s.id }

// State returns the current lifecycle state.
func (s *Subscriber) State() State { return State(s.state.Load()) }

// Events is closed when the subscriber is unregistered.
func (s *Subscriber) Events() <-chan Event { return s.out }

// offer enqueues ev without blocking. A full queue drops the event.
func (s *Subscriber) offer(ev Event) bool {
	select {
	case s.out <- ev:
		return true
	default:
		return false
	}
}

func (s *Subscriber) close() {
	s.once.Do(func() {
		s.state.Store(int32(StateDisconnected))
		close(s.out)
	})
}

// Hub is the subscriber registry.
type Hub struct {
	mu      sync.RWMutex
	subs    map[string]*Subscriber
	metrics *metrics.Recorder
}

// NewHub creates an empty Hub. rec may be nil.
func NewHub(rec *metrics.Recorder) *Hub {
	return &Hub{subs: make(map[string]*Subscriber), metrics: rec}
}

// Register moves s to connected and adds it to the registry.
func (h *Hub) Register(s *Subscriber) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !s.state.CompareAndSwap(int32(StateConnecting), int32(StateConnected)) {
		return ErrDisconnected
	}
	h.subs[s.id] = s
	h.metrics.Subscribers(context.Background(), 1)
	return nil
}

// Unregister removes the subscriber and closes its queue. Unknown ids are
// ignored.
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.subs[id]
	if !ok {
		return
	}
	delete(h.subs, id)
	s.close()
	h.metrics.Subscribers(context.Background(), -1)
}

// Publish enqueues ev to every connected subscriber except originID and
// returns the number of subscribers that accepted it. The registry is
// read-locked for the whole pass so membership cannot change mid-publish.
func (h *Hub) Publish(ev Event, originID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for id, s := range h.subs {
		if id == originID {
			continue
		}
		if s.offer(ev) {
			delivered++
		}
	}
	h.metrics.Delivered(context.Background(), ev.Name, delivered)
	return delivered
}

// Size returns the number of connected subscribers.
func (h *Hub) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close unregisters every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, s := range h.subs {
		delete(h.subs, id)
		s.close()
		h.metrics.Subscribers(context.Background(), -1)
	}
}
