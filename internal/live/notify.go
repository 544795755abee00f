package live

import (
	"time"

	"github.com/google/uuid"
)

// DefaultNotificationTTL is how long a notification stays visible before the
// client auto-dismisses it, unless the user dismisses it earlier.
const DefaultNotificationTTL = 6 * time.Second

// previewRunes caps the notification preview length.
const previewRunes = 120

// Notification is a transient, dismissible alert for a message that did not
// merge into an open conversation. Activating it navigates to the sender's
// conversation; it never mutates any conversation's message list. There is
// no cap on concurrently visible notifications; they stack independently.
type Notification struct {
	ID          string    `json:"id"`
	FromUserID  string    `json:"from_user_id"`
	Preview     string    `json:"preview"`
	ExpiresInMS int64     `json:"expires_in_ms"`
	Message     Message   `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewNotification builds the notification for a message. The full message
// body is forwarded opaquely so the client can use it when the notification
// is activated.
func NewNotification(msg Message, ttl time.Duration) Notification {
	if ttl <= 0 {
		ttl = DefaultNotificationTTL
	}
	return Notification{
		ID:          uuid.NewString(),
		FromUserID:  msg.FromUserID,
		Preview:     preview(msg),
		ExpiresInMS: ttl.Milliseconds(),
		Message:     msg,
		CreatedAt:   time.Now().UTC(),
	}
}

func preview(msg Message) string {
	text := msg.Text
	if text == "" && msg.MediaURL != "" {
		text = "Sent you an image"
	}
	runes := []rune(text)
	if len(runes) <= previewRunes {
		return text
	}
	return string(runes[:previewRunes]) + "…"
}
