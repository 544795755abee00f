package live

import (
	"fmt"
	"net/http"
	"sync"
)

// SSETransport writes channel events as server-sent events. The browser
// side is a plain EventSource; the connection is released when the HTTP
// handler that created the transport returns.
type SSETransport struct {
	w       http.ResponseWriter
	flusher http.Flusher

	mu     sync.Mutex
	closed bool
}

// NewSSETransport prepares a response writer for event streaming and sends
// the SSE headers.
func NewSSETransport(w http.ResponseWriter) (*SSETransport, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("response writer does not support streaming")
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &SSETransport{w: w, flusher: flusher}, nil
}

// Send writes one named event and flushes it to the client. Payloads are
// single-line JSON, so no data-field splitting is needed.
func (t *SSETransport) Send(event string, payload []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return fmt.Errorf("sse transport is closed")
	}
	if _, err := fmt.Fprintf(t.w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return fmt.Errorf("sse write failed: %w", err)
	}
	t.flusher.Flush()
	return nil
}

// Close marks the transport closed. The TCP stream itself belongs to the
// HTTP server and ends when the handler returns.
func (t *SSETransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}
