package live

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/coder/websocket"
	json "github.com/goccy/go-json"
)

// wsWriteTimeout bounds a single frame write so one stuck client cannot
// wedge its channel.
const wsWriteTimeout = 10 * time.Second

// WSTransport carries channel events over a WebSocket connection, for
// clients that prefer a socket to an EventSource. Each event becomes one
// text frame: {"event": "...", "data": {...}}.
type WSTransport struct {
	conn *websocket.Conn

	mu     sync.Mutex
	closed bool
}

// NewWSTransport wraps an accepted WebSocket connection.
func NewWSTransport(conn *websocket.Conn) *WSTransport {
	return &WSTransport{conn: conn}
}

type wsFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Send writes one event frame.
func (t *WSTransport) Send(event string, payload []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return fmt.Errorf("websocket transport is closed")
	}

	frame, err := json.Marshal(wsFrame{Event: event, Data: payload})
	if err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), wsWriteTimeout)
	defer cancel()
	if err := t.conn.Write(ctx, websocket.MessageText, frame); err != nil {
		return fmt.Errorf("websocket write failed: %w", err)
	}
	return nil
}

// Close closes the socket with a normal closure. Repeat calls are no-ops.
func (t *WSTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	return t.conn.Close(websocket.StatusNormalClosure, "server closed stream")
}
