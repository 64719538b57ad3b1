package broadcast

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 64 << 10

	greeting = "IoT platform socket connected"
)

// Server upgrades HTTP requests to WebSocket subscribers of a Hub.
type Server struct {
	hub      *Hub
	buffer   int
	upgrader websocket.Upgrader
}

// NewServer creates a Server. buffer sizes each subscriber's queue.
func NewServer(hub *Hub, buffer int) *Server {
	return &Server{
		hub:    hub,
		buffer: buffer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP runs one subscriber until the connection closes.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}

	sub := NewSubscriber(s.buffer)
	if ev, err := NewEvent(EventConnection, greeting); err == nil {
		sub.offer(ev)
	}
	if err := s.hub.Register(sub); err != nil {
		conn.Close()
		return
	}
	slog.Info("subscriber connected", "subscriber_id", sub.ID(), "remote", r.RemoteAddr, "subscribers", s.hub.Size())

	done := make(chan struct{})
	go func() {
		defer close(done)
		writePump(conn, sub)
	}()

	s.readPump(conn, sub)
	s.hub.Unregister(sub.ID())
	<-done
	conn.Close()
	slog.Info("subscriber disconnected", "subscriber_id", sub.ID(), "subscribers", s.hub.Size())
}

// readPump re-emits heartbeat frames to every other subscriber until the
// connection fails.
func (s *Server) readPump(conn *websocket.Conn, sub *Subscriber) {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("subscriber read failed", "subscriber_id", sub.ID(), "error", err)
			}
			return
		}

		var ev Event
		if err := json.Unmarshal(msg, &ev); err != nil {
			slog.Debug("ignoring malformed frame", "subscriber_id", sub.ID(), "error", err)
			continue
		}
		if ev.Name != EventHeartbeat {
			slog.Debug("ignoring event", "subscriber_id", sub.ID(), "event", ev.Name)
			continue
		}
		n := s.hub.Publish(ev, sub.ID())
		slog.Debug("heartbeat relayed", "subscriber_id", sub.ID(), "delivered", n)
	}
}

// writePump is the connection's only writer. It exits when the queue is
// closed or a write fails.
func writePump(conn *websocket.Conn, sub *Subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-sub.Events():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				slog.Warn("subscriber write failed", "subscriber_id", sub.ID(), "error", err)
				// unblock readPump
				conn.Close()
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				conn.Close()
				return
			}
		}
	}
}
