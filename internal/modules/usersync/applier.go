package usersync

import (
	"context"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"

	"linkup/internal/domain"
	"linkup/internal/identity"
)

// Applier turns identity events into user store mutations. It is shared by
// the bus consumer and the CLI replay command.
type Applier struct {
	store domain.UserRepository
}

// NewApplier creates an applier over the user store.
func NewApplier(store domain.UserRepository) *Applier {
	return &Applier{store: store}
}

// Apply handles one identity event payload for the given topic. Created and
// updated events both upsert, so out-of-order delivery converges on the
// latest state the provider sent.
func (a *Applier) Apply(ctx context.Context, topic string, payload []byte) error {
	var user identity.UserPayload
	if err := json.Unmarshal(payload, &user); err != nil {
		return fmt.Errorf("malformed identity payload: %w", err)
	}
	if user.ID == "" {
		return fmt.Errorf("identity payload has no user id")
	}

	switch topic {
	case identity.TopicUserCreated, identity.TopicUserUpdated:
		_, err := a.store.UpsertFromIdentity(ctx, domain.IdentityUser{
			ID:        user.ID,
			Email:     user.PrimaryEmail(),
			Username:  user.Username,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			ImageURL:  user.ImageURL,
		})
		return err

	case identity.TopicUserDeleted:
		err := a.store.Delete(ctx, user.ID)
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return err

	default:
		return fmt.Errorf("unknown identity topic %q", topic)
	}
}
