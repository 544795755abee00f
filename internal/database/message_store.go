package database

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/surrealdb/surrealdb.go"

	"linkup/internal/domain"
)

// MessageStore encapsulates database operations for direct messages. New
// message records also feed the live update channel through the message
// table's live query, so Create has no direct push side effect here.
type MessageStore struct {
	db *surrealdb.DB
}

// NewMessageStore creates a new MessageStore.
func NewMessageStore(db *surrealdb.DB) *MessageStore {
	return &MessageStore{db: db}
}

var _ domain.MessageRepository = (*MessageStore)(nil)

// Create persists a new message and returns it with its record id.
func (s *MessageStore) Create(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	if msg.FromUserID == msg.ToUserID {
		return nil, domain.ErrSelfTarget
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	if msg.MessageType == "" {
		msg.MessageType = domain.MessageTypeText
	}

	query := `
		CREATE message CONTENT {
			from_user_id: $from,
			to_user_id: $to,
			text: $text,
			message_type: $message_type,
			media_url: $media_url,
			seen: false,
			created_at: $created_at
		}
	`
	params := map[string]any{
		"from":         msg.FromUserID,
		"to":           msg.ToUserID,
		"text":         msg.Text,
		"message_type": string(msg.MessageType),
		"media_url":    msg.MediaURL,
		"created_at":   msg.CreatedAt.Format(time.RFC3339),
	}

	created, err := QueryOne[domain.Message](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	if created == nil {
		return nil, fmt.Errorf("message creation returned no record")
	}
	return created, nil
}

// Conversation returns the full exchange between two users, oldest first,
// and marks messages addressed to userID as seen.
func (s *MessageStore) Conversation(ctx context.Context, userID, peerID string) ([]domain.Message, error) {
	query := `
		SELECT * FROM message
		WHERE (from_user_id = $user AND to_user_id = $peer)
		   OR (from_user_id = $peer AND to_user_id = $user)
		ORDER BY created_at ASC
	`
	params := map[string]any{"user": userID, "peer": peerID}
	messages, err := Query[domain.Message](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("conversation query failed: %w", err)
	}

	markSeen := `
		UPDATE message SET seen = true
		WHERE from_user_id = $peer AND to_user_id = $user AND seen = false
	`
	if err := Execute(ctx, s.db, markSeen, params); err != nil {
		return nil, fmt.Errorf("failed to mark messages seen: %w", err)
	}
	return messages, nil
}

// Recent returns the newest message per conversation partner of userID,
// ordered by that message's time, newest conversation first.
func (s *MessageStore) Recent(ctx context.Context, userID string) ([]domain.Message, error) {
	query := `
		SELECT * FROM message
		WHERE from_user_id = $user OR to_user_id = $user
		ORDER BY created_at DESC
	`
	messages, err := Query[domain.Message](ctx, s.db, query, map[string]any{"user": userID})
	if err != nil {
		return nil, fmt.Errorf("recent messages query failed: %w", err)
	}

	// Messages arrive newest first, so the first message seen per peer is
	// that conversation's latest.
	latest := make(map[string]domain.Message)
	order := make([]string, 0)
	for _, m := range messages {
		peer := m.FromUserID
		if peer == userID {
			peer = m.ToUserID
		}
		if _, ok := latest[peer]; !ok {
			latest[peer] = m
			order = append(order, peer)
		}
	}

	recent := lo.Map(order, func(peer string, _ int) domain.Message { return latest[peer] })
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	return recent, nil
}
