package live

import "sync/atomic"

// RouteCell holds the user id of the conversation a client currently has
// open, or "" when none. Navigation writes it; the channel reads it at
// dispatch time. It exists so the routing decision always sees the latest
// route instead of a value captured when the stream opened.
type RouteCell struct {
	v atomic.Value
}

// NewRouteCell creates a cell with no open conversation.
func NewRouteCell() *RouteCell {
	c := &RouteCell{}
	c.v.Store("")
	return c
}

// Set records the counterpart of the now-open conversation.
func (c *RouteCell) Set(peerUserID string) {
	c.v.Store(peerUserID)
}

// Clear records that no conversation is open.
func (c *RouteCell) Clear() {
	c.v.Store("")
}

// Current returns the open conversation's counterpart, or "".
func (c *RouteCell) Current() string {
	return c.v.Load().(string)
}
