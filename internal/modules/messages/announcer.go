package messages

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	json "github.com/goccy/go-json"

	"linkup/internal/database"
	"linkup/internal/live"
	"linkup/internal/pubsub"
)

// Announcer watches the message table through a database live query and
// publishes every newly created message onto the recipient's direct topic.
// It is the single producer feeding all live channels; per-client fan-out
// happens on the bus.
type Announcer struct {
	liveQueries database.LiveQueryService
	publisher   pubsub.Publisher

	sub *database.Subscription
}

// NewAnnouncer creates an announcer. Start must be called before it does
// anything.
func NewAnnouncer(liveQueries database.LiveQueryService, publisher pubsub.Publisher) *Announcer {
	return &Announcer{liveQueries: liveQueries, publisher: publisher}
}

// Start subscribes to message creations. Updates (the seen flag) and deletes
// are ignored; only new messages travel the live channel.
func (a *Announcer) Start(ctx context.Context) error {
	sub, err := a.liveQueries.Subscribe(ctx, "message", nil, a.onChange)
	if err != nil {
		return fmt.Errorf("failed to watch message table: %w", err)
	}
	a.sub = sub
	return nil
}

// Stop tears down the live query subscription.
func (a *Announcer) Stop() {
	if a.sub != nil {
		if err := a.liveQueries.Unsubscribe(a.sub.ID); err != nil {
			slog.Warn("Failed to unsubscribe message watcher", "error", err)
		}
		a.sub = nil
	}
}

func (a *Announcer) onChange(ctx context.Context, action database.LiveQueryAction, data any) {
	if action != database.ActionCreate {
		return
	}

	msg, err := decodeRecord(data)
	if err != nil {
		slog.Warn("Skipping undecodable message record", "error", err)
		return
	}
	if msg.ToUserID == "" {
		slog.Warn("Skipping message record without recipient", "id", msg.ID)
		return
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		slog.Error("Failed to encode live message", "id", msg.ID, "error", err)
		return
	}

	if err := a.publisher.Publish(ctx, pubsub.Message{
		Topic:   live.DirectTopic(msg.ToUserID),
		UserID:  msg.ToUserID,
		Payload: payload,
	}); err != nil {
		slog.Error("Failed to publish live message", "id", msg.ID, "error", err)
	}
}

// messageRecord mirrors a message table row as it arrives from the live
// query, where the record id can surface in several shapes.
type messageRecord struct {
	ID          any    `json:"id"`
	FromUserID  string `json:"from_user_id"`
	ToUserID    string `json:"to_user_id"`
	Text        string `json:"text"`
	MessageType string `json:"message_type"`
	MediaURL    string `json:"media_url"`
	CreatedAt   string `json:"created_at"`
}

// decodeRecord converts a live query result into the wire message. The
// result arrives as a generic map, so it is round-tripped through JSON.
func decodeRecord(data any) (live.Message, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return live.Message{}, fmt.Errorf("failed to re-encode record: %w", err)
	}

	var rec messageRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return live.Message{}, fmt.Errorf("failed to decode record: %w", err)
	}

	msg := live.Message{
		ID:          recordID(rec.ID),
		FromUserID:  rec.FromUserID,
		ToUserID:    rec.ToUserID,
		Text:        rec.Text,
		MessageType: rec.MessageType,
		MediaURL:    rec.MediaURL,
	}
	if rec.CreatedAt != "" {
		if t, err := parseRecordTime(rec.CreatedAt); err == nil {
			msg.CreatedAt = t
		}
	}
	return msg, nil
}

func parseRecordTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func recordID(id any) string {
	switch v := id.(type) {
	case string:
		return v
	case map[string]any:
		tb, _ := v["tb"].(string)
		inner := v["id"]
		if tb != "" && inner != nil {
			return fmt.Sprintf("%s:%v", tb, inner)
		}
	}
	if id == nil {
		return ""
	}
	return fmt.Sprintf("%v", id)
}
