package pubsub

import (
	"context"
)

// Message is the structure passed between components on the bus. It is
// intentionally simple and carries raw payload bytes.
type Message struct {
	// Topic identifies the channel the message belongs to
	// (e.g., "messages.direct.<user>").
	Topic string
	// UserID identifies the user the message concerns, when there is one.
	UserID string
	// Payload contains the raw message data (JSON).
	Payload []byte
	// Metadata can contain arbitrary key-value pairs for context.
	Metadata map[string]string
}

// Handler defines the function signature for processing a received message.
type Handler func(ctx context.Context, msg Message) error

// Publisher defines the contract for sending messages to the bus.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// Subscriber defines the contract for receiving messages from the bus.
// Subscribe returns once the subscription is active; delivery happens in the
// background until the context is cancelled.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string, handler Handler) error
	Close() error
}
