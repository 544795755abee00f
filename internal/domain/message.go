package domain

import (
	"context"
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// MessageType distinguishes plain text from media messages.
type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image"
)

// Message is a direct message between two users. Messages are immutable
// once created; only the seen flag changes afterwards.
type Message struct {
	ID          *surrealmodels.RecordID `json:"id,omitempty"`
	FromUserID  string                  `json:"from_user_id"`
	ToUserID    string                  `json:"to_user_id"`
	Text        string                  `json:"text,omitempty"`
	MessageType MessageType             `json:"message_type"`
	MediaURL    string                  `json:"media_url,omitempty"`
	Seen        bool                    `json:"seen"`
	CreatedAt   time.Time               `json:"created_at"`
}

// RecordIDString returns the full record id ("message:<uuid>") or "" for an
// unsaved message.
func (m *Message) RecordIDString() string {
	if m.ID == nil {
		return ""
	}
	return m.ID.String()
}

// MessageRepository defines the contract for message storage operations.
type MessageRepository interface {
	Create(ctx context.Context, msg *Message) (*Message, error)
	// Conversation returns the messages exchanged between the two users,
	// oldest first, and marks the ones addressed to userID as seen.
	Conversation(ctx context.Context, userID, peerID string) ([]Message, error)
	// Recent returns the newest message per conversation partner of
	// userID, newest conversation first.
	Recent(ctx context.Context, userID string) ([]Message, error)
}
