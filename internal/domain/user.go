package domain

import (
	"context"
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// User represents the core user model in the application domain. The record
// id carries the identity provider's user id, so lookups by external id are
// direct record selects.
type User struct {
	ID             *surrealmodels.RecordID `json:"id,omitempty"`
	Email          string                  `json:"email"`
	Username       string                  `json:"username"`
	FullName       string                  `json:"full_name"`
	Bio            string                  `json:"bio,omitempty"`
	Location       string                  `json:"location,omitempty"`
	ProfilePicture string                  `json:"profile_picture,omitempty"`
	CoverPhoto     string                  `json:"cover_photo,omitempty"`
	Following      []string                `json:"following"`
	Followers      []string                `json:"followers"`
	Connections    []string                `json:"connections"`
	CreatedAt      time.Time               `json:"created_at"`
}

// ExternalID returns the identity provider's id for this user, or "" for an
// unsaved user.
func (u *User) ExternalID() string {
	if u.ID == nil {
		return ""
	}
	if s, ok := u.ID.ID.(string); ok {
		return s
	}
	return ""
}

// ConnectionStatus is the state of a connection request between two users.
type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "pending"
	ConnectionAccepted ConnectionStatus = "accepted"
)

// Connection is a directed connection request. Once accepted, both sides
// list each other in User.Connections.
type Connection struct {
	ID         *surrealmodels.RecordID `json:"id,omitempty"`
	FromUserID string                  `json:"from_user_id"`
	ToUserID   string                  `json:"to_user_id"`
	Status     ConnectionStatus        `json:"status"`
	CreatedAt  time.Time               `json:"created_at"`
}

// ConnectionOverview groups everything the connections page needs.
type ConnectionOverview struct {
	Connections []User `json:"connections"`
	Followers   []User `json:"followers"`
	Following   []User `json:"following"`
	Pending     []User `json:"pending"`
}

// IdentityUser is the subset of an identity provider user payload this
// application consumes, both from webhooks and from sync replays.
type IdentityUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	ImageURL  string `json:"image_url"`
}

// UserRepository defines the contract for user data storage operations. It
// lives in the domain because it is a requirement of the domain, not of the
// database implementation.
type UserRepository interface {
	Get(ctx context.Context, userID string) (*User, error)
	UpsertFromIdentity(ctx context.Context, identity IdentityUser) (*User, error)
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*User, error)
	Delete(ctx context.Context, userID string) error
	Discover(ctx context.Context, selfID, query string) ([]User, error)
	Follow(ctx context.Context, userID, targetID string) error
	Unfollow(ctx context.Context, userID, targetID string) error
	Connect(ctx context.Context, userID, targetID string) error
	Accept(ctx context.Context, userID, requesterID string) error
	Overview(ctx context.Context, userID string) (*ConnectionOverview, error)
}

// ProfileUpdate carries the mutable profile fields. Nil pointers mean
// "leave unchanged" so partial updates do not clobber existing values.
type ProfileUpdate struct {
	Username       *string `json:"username,omitempty"`
	FullName       *string `json:"full_name,omitempty"`
	Bio            *string `json:"bio,omitempty"`
	Location       *string `json:"location,omitempty"`
	ProfilePicture *string `json:"profile_picture,omitempty"`
	CoverPhoto     *string `json:"cover_photo,omitempty"`
}
