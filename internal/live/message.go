// Package live implements the live update channel: a per-user, server-push
// stream that delivers newly created direct messages to connected clients,
// and the routing step that decides whether an incoming message merges into
// the open conversation or surfaces as a transient notification.
package live

import "time"

// Message is the wire shape of a direct message on the live channel. It is a
// projection of the stored record; the channel never mutates or persists it.
type Message struct {
	ID          string    `json:"id"`
	FromUserID  string    `json:"from_user_id"`
	ToUserID    string    `json:"to_user_id"`
	Text        string    `json:"text,omitempty"`
	MessageType string    `json:"message_type"`
	MediaURL    string    `json:"media_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// DirectTopic returns the bus topic carrying new messages addressed to the
// given user.
func DirectTopic(userID string) string {
	return "messages.direct." + userID
}
