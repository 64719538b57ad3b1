package db

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prompted/iotplatform/internal/fault"
)

// Event is a connection lifecycle transition.
type Event string

const (
	EventConnected    Event = "connected"
	EventError        Event = "error"
	EventDisconnected Event = "disconnected"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Listener observes lifecycle events. err is nil except for EventError.
type Listener func(ev Event, err error)

// Monitor pings the database on an interval and reports connected, error,
// and disconnected transitions to its listeners and the log.
type Monitor struct {
	pinger   Pinger
	interval time.Duration

	connected atomic.Bool

	mu        sync.Mutex
	listeners []Listener
}

// NewMonitor creates a Monitor. It starts in the disconnected state until
// the first successful Check.
func NewMonitor(p Pinger, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Monitor{pinger: p, interval: interval}
}

// OnEvent registers l for every subsequent transition.
func (m *Monitor) OnEvent(l Listener) {
	m.mu.Lock()
	m.listeners = append(m.listeners, l)
	m.mu.Unlock()
}

// Connected reports the last observed state.
func (m *Monitor) Connected() bool { return m.connected.Load() }

// Available returns fault.ErrUnavailable while disconnected.
func (m *Monitor) Available() error {
	if !m.connected.Load() {
		return fault.ErrUnavailable
	}
	return nil
}

// Check pings once and emits any resulting transition.
func (m *Monitor) Check(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, m.interval)
	defer cancel()

	err := m.pinger.PingContext(pingCtx)
	if err == nil {
		if !m.connected.Swap(true) {
			m.emit(EventConnected, nil)
		}
		return
	}

	m.emit(EventError, err)
	if m.connected.Swap(false) {
		m.emit(EventDisconnected, nil)
	}
}

// Run checks immediately and then on every tick until ctx is cancelled,
// after which the monitor reports disconnected.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			if m.connected.Swap(false) {
				m.emit(EventDisconnected, nil)
			}
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

func (m *Monitor) emit(ev Event, err error) {
	switch ev {
	case EventError:
		slog.Error("database connection error", "error", err)
	case EventDisconnected:
		slog.Warn("database disconnected")
	default:
		slog.Info("database connection established")
	}

	m.mu.Lock()
	ls := make([]Listener, len(m.listeners))
	copy(ls, m.listeners)
	m.mu.Unlock()

	for _, l := range ls {
		l(ev, err)
	}
}
