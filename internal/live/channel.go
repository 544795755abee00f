package live

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"linkup/internal/pubsub"
)

// ErrAlreadyOpen is returned when Open is called on a channel that is
// currently streaming.
var ErrAlreadyOpen = errors.New("live channel is already open")

// State is the lifecycle state of a channel.
type State int

const (
	StateClosed State = iota
	StateOpen
)

// Event names emitted on the push stream.
const (
	EventHello  = "hello"
	EventMerge  = "merge"
	EventNotify = "notify"
)

// Transport is the server half of one push stream to a client. Send writes
// a single named event; a returned error means the stream is unusable.
// Close releases the stream and must tolerate repeated calls.
type Transport interface {
	Send(event string, payload []byte) error
	Close() error
}

// Channel delivers new direct messages for one user over one transport.
//
// It is an explicit {Closed, Open} state machine: Open fails while the
// channel is open, Close is idempotent, and once Close returns no further
// events reach the transport, even ones already in flight. A transport
// error closes the channel; there is no automatic reconnect and no replay.
// The owning client view re-opens on its next mount and fetches history
// through the ordinary conversation endpoint.
type Channel struct {
	userID string
	route  *RouteCell
	sub    pubsub.Subscriber
	ttl    time.Duration

	mu        sync.Mutex
	state     State
	transport Transport
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewChannel creates a closed channel for the user. The route cell is read
// on every dispatch, never captured.
func NewChannel(userID string, route *RouteCell, sub pubsub.Subscriber, notificationTTL time.Duration) *Channel {
	return &Channel{
		userID: userID,
		route:  route,
		sub:    sub,
		ttl:    notificationTTL,
	}
}

// State reports the current lifecycle state.
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Done returns a channel closed when this channel closes. It is only valid
// after a successful Open and until the next Open.
func (c *Channel) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// Open attaches the transport and starts delivering messages addressed to
// the channel's user, in bus arrival order. Calling Open while open is an
// error; reopening after Close establishes a fresh stream with no state
// carried over.
func (c *Channel) Open(ctx context.Context, transport Transport) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateOpen {
		return ErrAlreadyOpen
	}

	subCtx, cancel := context.WithCancel(ctx)
	if err := c.sub.Subscribe(subCtx, DirectTopic(c.userID), c.handle); err != nil {
		cancel()
		return err
	}

	c.state = StateOpen
	c.transport = transport
	c.cancel = cancel
	c.done = make(chan struct{})
	return nil
}

// Close detaches dispatch and releases the transport. It is safe to call
// any number of times. Because dispatch runs under the same lock, no event
// reaches the transport after Close returns.
func (c *Channel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
	return nil
}

func (c *Channel) closeLocked() {
	if c.state == StateClosed {
		return
	}
	c.state = StateClosed
	c.cancel()
	if err := c.transport.Close(); err != nil {
		slog.Debug("Live transport close failed", "userID", c.userID, "error", err)
	}
	c.transport = nil
	close(c.done)
}

// handle receives one bus message and dispatches it exactly once. Malformed
// payloads are dropped with a log line; they never terminate the stream.
func (c *Channel) handle(_ context.Context, busMsg pubsub.Message) error {
	var msg Message
	if err := json.Unmarshal(busMsg.Payload, &msg); err != nil {
		slog.Warn("Dropping malformed live event", "userID", c.userID, "error", err)
		return nil
	}
	c.dispatch(msg)
	return nil
}

// dispatch routes one message and writes the resulting event. Events that
// arrive after close are discarded. A transport failure closes the channel
// in place; it is not surfaced to the user since live delivery is
// best-effort over a reliable fetch-based history.
func (c *Channel) dispatch(msg Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateOpen {
		return
	}

	var (
		event   string
		payload any
	)
	switch Route(msg, c.route.Current()) {
	case DecisionMerge:
		event = EventMerge
		payload = msg
	default:
		event = EventNotify
		payload = NewNotification(msg, c.ttl)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to encode live event", "userID", c.userID, "event", event, "error", err)
		return
	}

	if err := c.transport.Send(event, data); err != nil {
		slog.Info("Live transport failed, closing channel", "userID", c.userID, "error", err)
		c.closeLocked()
	}
}
