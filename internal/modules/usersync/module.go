package usersync

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"

	"linkup/internal/identity"
	"linkup/internal/module"
	"linkup/internal/pubsub"
	"linkup/internal/registry"
)

// UserSyncModule consumes identity events off the bus and mirrors them into
// the user store. Together with the webhook module it keeps local profiles
// in step with the identity provider without any request-path coupling.
type UserSyncModule struct {
	module.BaseModule
}

// Name returns the unique name for the module.
func (m *UserSyncModule) Name() string {
	return "usersync"
}

// Boot subscribes to the identity topics. It has no HTTP routes.
func (m *UserSyncModule) Boot(ctx context.Context, g *echo.Group, reg *registry.Registry) error {
	applier := NewApplier(registry.MustGet(reg, registry.KeyUserStore))
	sub := registry.MustGet(reg, registry.KeySubscriber)

	handler := func(ctx context.Context, msg pubsub.Message) error {
		if err := applier.Apply(ctx, msg.Topic, msg.Payload); err != nil {
			slog.Error("Failed to apply identity event", "topic", msg.Topic, "error", err)
			return err
		}
		slog.Info("Applied identity event", "topic", msg.Topic)
		return nil
	}

	for _, topic := range []string{
		identity.TopicUserCreated,
		identity.TopicUserUpdated,
		identity.TopicUserDeleted,
	} {
		if err := sub.Subscribe(ctx, topic, handler); err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
		}
	}
	return nil
}
