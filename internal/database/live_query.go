package database

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/connection"
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// LiveQueryAction represents the type of change in a live query update.
type LiveQueryAction string

const (
	ActionCreate LiveQueryAction = "CREATE"
	ActionUpdate LiveQueryAction = "UPDATE"
	ActionDelete LiveQueryAction = "DELETE"
)

// LiveQueryHandler is called for every change matched by a live query.
type LiveQueryHandler func(ctx context.Context, action LiveQueryAction, data any)

// LiveQueryFilter narrows a table subscription with a SurrealQL WHERE clause.
type LiveQueryFilter struct {
	Where  string
	Params map[string]any
}

// Subscription represents an active live query subscription.
type Subscription struct {
	ID    string
	Table string
}

// LiveQueryService provides real-time change feeds via SurrealDB live
// queries. It is how this application observes new records (for example,
// freshly created direct messages) without polling.
type LiveQueryService interface {
	Subscribe(ctx context.Context, table string, filter *LiveQueryFilter, handler LiveQueryHandler) (*Subscription, error)
	Unsubscribe(subID string) error
}

// SurrealLiveQueryService implements LiveQueryService on a SurrealDB
// connection.
type SurrealLiveQueryService struct {
	db            *surrealdb.DB
	subscriptions sync.Map // subID -> *liveSubscription
}

type liveSubscription struct {
	id          string
	table       string
	liveQueryID string
	cancel      context.CancelFunc
}

// NewSurrealLiveQueryService creates a new live query service.
func NewSurrealLiveQueryService(db *surrealdb.DB) *SurrealLiveQueryService {
	return &SurrealLiveQueryService{db: db}
}

// Subscribe starts a LIVE SELECT on the table, optionally filtered, and
// invokes handler for every notification until the context is cancelled or
// Unsubscribe is called.
func (s *SurrealLiveQueryService) Subscribe(ctx context.Context, table string, filter *LiveQueryFilter, handler LiveQueryHandler) (*Subscription, error) {
	if handler == nil {
		return nil, fmt.Errorf("handler cannot be nil")
	}

	query := fmt.Sprintf("LIVE SELECT * FROM %s", table)
	params := map[string]any{}
	if filter != nil && filter.Where != "" {
		query = fmt.Sprintf("%s WHERE %s", query, filter.Where)
		for k, v := range filter.Params {
			params[k] = v
		}
	}

	results, err := surrealdb.Query[any](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to execute live query: %w", err)
	}
	if results == nil || len(*results) == 0 {
		return nil, fmt.Errorf("live query returned no results")
	}

	liveQueryID, err := extractLiveQueryID((*results)[0].Result)
	if err != nil {
		return nil, err
	}

	notifications, err := s.db.LiveNotifications(liveQueryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get notification channel: %w", err)
	}

	subCtx, cancel := context.WithCancel(context.Background())
	sub := &liveSubscription{
		id:          uuid.NewString(),
		table:       table,
		liveQueryID: liveQueryID,
		cancel:      cancel,
	}
	s.subscriptions.Store(sub.id, sub)

	slog.Info("Live query established", "subID", sub.id, "table", table, "liveQueryID", liveQueryID)

	go s.listen(subCtx, sub, handler, notifications)
	go s.reap(subCtx, sub)

	return &Subscription{ID: sub.id, Table: table}, nil
}

// Unsubscribe tears down a subscription. Unknown ids are ignored.
func (s *SurrealLiveQueryService) Unsubscribe(subID string) error {
	if v, ok := s.subscriptions.Load(subID); ok {
		v.(*liveSubscription).cancel()
		s.subscriptions.Delete(subID)
		slog.Info("Live query subscription removed", "subID", subID)
	}
	return nil
}

// listen forwards notifications to the handler until the subscription ends.
func (s *SurrealLiveQueryService) listen(ctx context.Context, sub *liveSubscription, handler LiveQueryHandler, notifications <-chan connection.Notification) {
	defer s.subscriptions.Delete(sub.id)

	for {
		select {
		case <-ctx.Done():
			return

		case notification, ok := <-notifications:
			if !ok {
				slog.Debug("Live query notification channel closed", "subID", sub.id)
				return
			}

			var action LiveQueryAction
			switch notification.Action {
			case connection.CreateAction:
				action = ActionCreate
			case connection.UpdateAction:
				action = ActionUpdate
			case connection.DeleteAction:
				action = ActionDelete
			default:
				slog.Warn("Unknown live query action", "subID", sub.id, "action", notification.Action)
				continue
			}

			func() {
				defer func() {
					if r := recover(); r != nil {
						slog.Error("Panic in live query handler", "subID", sub.id, "panic", r)
					}
				}()
				handler(ctx, action, notification.Result)
			}()
		}
	}
}

// reap kills the live query on the database side once the subscription
// context ends.
func (s *SurrealLiveQueryService) reap(ctx context.Context, sub *liveSubscription) {
	<-ctx.Done()

	cleanupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.db.CloseLiveNotifications(sub.liveQueryID); err != nil {
		slog.Warn("Failed to close live notifications", "error", err, "liveQueryID", sub.liveQueryID)
	}

	if _, err := surrealdb.Query[any](cleanupCtx, s.db, "KILL $liveQueryID", map[string]any{
		"liveQueryID": sub.liveQueryID,
	}); err != nil {
		slog.Warn("Failed to kill live query", "error", err, "liveQueryID", sub.liveQueryID)
	}
}

// extractLiveQueryID pulls the live query UUID out of the LIVE SELECT result,
// which the SDK returns in several shapes.
func extractLiveQueryID(result any) (string, error) {
	switch v := result.(type) {
	case string:
		return v, nil
	case models.UUID:
		return v.String(), nil
	case map[string]any:
		if id, ok := v["id"].(string); ok {
			return id, nil
		}
		if id, ok := v["id"].(models.UUID); ok {
			return id.String(), nil
		}
		return "", fmt.Errorf("live query result map does not contain 'id': %+v", v)
	default:
		return "", fmt.Errorf("unexpected live query result type %T", result)
	}
}
