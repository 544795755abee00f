package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/surrealdb/surrealdb.go"

	"linkup/internal/domain"
)

// UserStore encapsulates database operations for users and their social
// graph (followers, following, connection requests).
type UserStore struct {
	db *surrealdb.DB
}

// NewUserStore creates a new UserStore.
func NewUserStore(db *surrealdb.DB) *UserStore {
	return &UserStore{db: db}
}

var _ domain.UserRepository = (*UserStore)(nil)

// Get fetches a user by their external (identity provider) id.
func (s *UserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	query := "SELECT * FROM type::thing('user', $id)"
	user, err := QueryOne[domain.User](ctx, s.db, query, map[string]any{"id": userID})
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// UpsertFromIdentity creates or refreshes a user record from an identity
// provider payload. Profile fields owned by this application (bio, location,
// social graph) are preserved on update.
func (s *UserStore) UpsertFromIdentity(ctx context.Context, identity domain.IdentityUser) (*domain.User, error) {
	username := identity.Username
	if username == "" && identity.Email != "" {
		username = strings.Split(identity.Email, "@")[0]
	}
	fullName := strings.TrimSpace(identity.FirstName + " " + identity.LastName)

	query := `
		UPSERT type::thing('user', $id) SET
			email = $email,
			username = $username,
			full_name = $full_name,
			profile_picture = $picture,
			following = following OR [],
			followers = followers OR [],
			connections = connections OR [],
			created_at = created_at OR $now
	`
	params := map[string]any{
		"id":        identity.ID,
		"email":     identity.Email,
		"username":  username,
		"full_name": fullName,
		"picture":   identity.ImageURL,
		"now":       time.Now().UTC().Format(time.RFC3339),
	}

	if err := Execute(ctx, s.db, query, params); err != nil {
		return nil, fmt.Errorf("failed to upsert user %s: %w", identity.ID, err)
	}
	return s.Get(ctx, identity.ID)
}

// UpdateProfile applies a partial profile update and returns the fresh user.
func (s *UserStore) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error) {
	sets := make([]string, 0, 6)
	params := map[string]any{"id": userID}

	field := func(name string, value *string) {
		if value != nil {
			sets = append(sets, fmt.Sprintf("%s = $%s", name, name))
			params[name] = *value
		}
	}
	field("username", update.Username)
	field("full_name", update.FullName)
	field("bio", update.Bio)
	field("location", update.Location)
	field("profile_picture", update.ProfilePicture)
	field("cover_photo", update.CoverPhoto)

	if len(sets) > 0 {
		query := "UPDATE type::thing('user', $id) SET " + strings.Join(sets, ", ")
		if err := Execute(ctx, s.db, query, params); err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}
	return s.Get(ctx, userID)
}

// Delete removes a user record. Posts and messages are intentionally left
// in place; display code treats a missing author as a deleted account.
func (s *UserStore) Delete(ctx context.Context, userID string) error {
	return Execute(ctx, s.db, "DELETE type::thing('user', $id)", map[string]any{"id": userID})
}

// Discover searches users by username, name, email or location, excluding
// the requesting user.
func (s *UserStore) Discover(ctx context.Context, selfID, query string) ([]domain.User, error) {
	q := `
		SELECT * FROM user
		WHERE id != type::thing('user', $self)
		AND (
			string::lowercase(username) CONTAINS $needle
			OR string::lowercase(full_name) CONTAINS $needle
			OR string::lowercase(email) CONTAINS $needle
			OR string::lowercase(location) CONTAINS $needle
		)
	`
	params := map[string]any{
		"self":   selfID,
		"needle": strings.ToLower(strings.TrimSpace(query)),
	}
	users, err := Query[domain.User](ctx, s.db, q, params)
	if err != nil {
		return nil, fmt.Errorf("discover query failed: %w", err)
	}
	return users, nil
}

// Follow adds targetID to userID's following list and the reverse follower
// entry. Following is idempotent.
func (s *UserStore) Follow(ctx context.Context, userID, targetID string) error {
	if userID == targetID {
		return domain.ErrSelfTarget
	}
	if _, err := s.Get(ctx, targetID); err != nil {
		return err
	}

	query := `
		UPDATE type::thing('user', $user) SET following += $target WHERE $target NOT IN following;
		UPDATE type::thing('user', $target) SET followers += $user WHERE $user NOT IN followers;
	`
	params := map[string]any{"user": userID, "target": targetID}
	if err := Execute(ctx, s.db, query, params); err != nil {
		return fmt.Errorf("failed to follow user: %w", err)
	}
	return nil
}

// Unfollow removes the follow edge in both directions.
func (s *UserStore) Unfollow(ctx context.Context, userID, targetID string) error {
	query := `
		UPDATE type::thing('user', $user) SET following -= $target;
		UPDATE type::thing('user', $target) SET followers -= $user;
	`
	params := map[string]any{"user": userID, "target": targetID}
	if err := Execute(ctx, s.db, query, params); err != nil {
		return fmt.Errorf("failed to unfollow user: %w", err)
	}
	return nil
}

// Connect records a pending connection request from userID to targetID.
func (s *UserStore) Connect(ctx context.Context, userID, targetID string) error {
	if userID == targetID {
		return domain.ErrSelfTarget
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if lo.Contains(user.Connections, targetID) {
		return domain.ErrAlreadyConnected
	}

	existing, err := s.pendingBetween(ctx, userID, targetID)
	if err != nil {
		return err
	}
	if existing != nil {
		return domain.ErrConnectionPending
	}

	query := `
		CREATE connection CONTENT {
			from_user_id: $from,
			to_user_id: $to,
			status: 'pending',
			created_at: $now
		}
	`
	params := map[string]any{
		"from": userID,
		"to":   targetID,
		"now":  time.Now().UTC().Format(time.RFC3339),
	}
	if err := Execute(ctx, s.db, query, params); err != nil {
		return fmt.Errorf("failed to create connection request: %w", err)
	}
	return nil
}

// Accept resolves a pending request from requesterID to userID and links the
// two users as connections.
func (s *UserStore) Accept(ctx context.Context, userID, requesterID string) error {
	pending, err := s.pendingBetween(ctx, requesterID, userID)
	if err != nil {
		return err
	}
	if pending == nil {
		return domain.ErrConnectionPending
	}

	query := `
		UPDATE connection SET status = 'accepted'
			WHERE from_user_id = $from AND to_user_id = $to AND status = 'pending';
		UPDATE type::thing('user', $from) SET connections += $to WHERE $to NOT IN connections;
		UPDATE type::thing('user', $to) SET connections += $from WHERE $from NOT IN connections;
	`
	params := map[string]any{"from": requesterID, "to": userID}
	if err := Execute(ctx, s.db, query, params); err != nil {
		return fmt.Errorf("failed to accept connection: %w", err)
	}
	return nil
}

// Overview assembles the connections page data for a user.
func (s *UserStore) Overview(ctx context.Context, userID string) (*domain.ConnectionOverview, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	pendingQuery := `
		SELECT * FROM connection
		WHERE to_user_id = $user AND status = 'pending'
		ORDER BY created_at DESC
	`
	pending, err := Query[domain.Connection](ctx, s.db, pendingQuery, map[string]any{"user": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to load pending connections: %w", err)
	}

	pendingIDs := lo.Map(pending, func(c domain.Connection, _ int) string { return c.FromUserID })

	overview := &domain.ConnectionOverview{}
	load := func(ids []string) ([]domain.User, error) {
		if len(ids) == 0 {
			return []domain.User{}, nil
		}
		users, err := s.byExternalIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		return users, nil
	}

	if overview.Connections, err = load(user.Connections); err != nil {
		return nil, err
	}
	if overview.Followers, err = load(user.Followers); err != nil {
		return nil, err
	}
	if overview.Following, err = load(user.Following); err != nil {
		return nil, err
	}
	if overview.Pending, err = load(pendingIDs); err != nil {
		return nil, err
	}
	return overview, nil
}

// byExternalIDs fetches users for a list of external ids, skipping missing
// records.
func (s *UserStore) byExternalIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	things := lo.Map(lo.Uniq(ids), func(id string, _ int) any { return id })
	query := `
		SELECT * FROM user WHERE record::id(id) IN $ids
	`
	users, err := Query[domain.User](ctx, s.db, query, map[string]any{"ids": things})
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	return users, nil
}

// pendingBetween finds a pending connection request from one user to
// another, or nil if none exists.
func (s *UserStore) pendingBetween(ctx context.Context, fromID, toID string) (*domain.Connection, error) {
	query := `
		SELECT * FROM connection
		WHERE from_user_id = $from AND to_user_id = $to AND status = 'pending'
	`
	params := map[string]any{"from": fromID, "to": toID}
	conn, err := QueryOne[domain.Connection](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to query connection request: %w", err)
	}
	return conn, nil
}
