package simulator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/prompted/iotplatform/internal/broadcast"
	"github.com/prompted/iotplatform/internal/models"
)

// Socket is a client connection to the platform's live channel.
type Socket struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// DialSocket connects to url and discards inbound frames until Close.
func DialSocket(ctx context.Context, url string) (*Socket, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial socket: %w", err)
	}
	s := &Socket{conn: conn}
	go s.discard()
	return s, nil
}

// discard keeps the read side moving so control frames are processed.
func (s *Socket) discard() {
	for {
		if _, _, err := s.conn.NextReader(); err != nil {
			return
		}
	}
}

// Heartbeat sends rec as a heartbeat event.
func (s *Socket) Heartbeat(rec models.TelemetryRecord) error {
	ev, err := broadcast.NewEvent(broadcast.EventHeartbeat, rec)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return s.conn.WriteJSON(ev)
}

// Close sends a close frame and closes the connection.
func (s *Socket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return s.conn.Close()
}
