// Package identity defines the events emitted by the external identity
// provider and the bus topics they travel on. The webhook module publishes
// them; the usersync module consumes them.
package identity

import (
	json "github.com/goccy/go-json"
)

// Bus topics for identity lifecycle events.
const (
	TopicUserCreated = "identity.user.created"
	TopicUserUpdated = "identity.user.updated"
	TopicUserDeleted = "identity.user.deleted"
)

// Webhook event types as sent by the provider.
const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

// Event is the provider's webhook envelope.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// TopicFor maps a webhook event type to its bus topic, or "" for event
// types this application does not consume.
func TopicFor(eventType string) string {
	switch eventType {
	case EventUserCreated:
		return TopicUserCreated
	case EventUserUpdated:
		return TopicUserUpdated
	case EventUserDeleted:
		return TopicUserDeleted
	default:
		return ""
	}
}

// UserPayload is the provider's user object, reduced to the fields this
// application stores.
type UserPayload struct {
	ID                    string         `json:"id"`
	Username              string         `json:"username"`
	FirstName             string         `json:"first_name"`
	LastName              string         `json:"last_name"`
	ImageURL              string         `json:"image_url"`
	EmailAddresses        []EmailAddress `json:"email_addresses"`
	PrimaryEmailAddressID string         `json:"primary_email_address_id"`
}

// EmailAddress is one of the provider-side addresses on a user.
type EmailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

// PrimaryEmail returns the address marked primary, falling back to the
// first one.
func (p UserPayload) PrimaryEmail() string {
	for _, e := range p.EmailAddresses {
		if e.ID == p.PrimaryEmailAddressID {
			return e.EmailAddress
		}
	}
	if len(p.EmailAddresses) > 0 {
		return p.EmailAddresses[0].EmailAddress
	}
	return ""
}

// FullName joins the provider's name parts.
func (p UserPayload) FullName() string {
	switch {
	case p.FirstName != "" && p.LastName != "":
		return p.FirstName + " " + p.LastName
	case p.FirstName != "":
		return p.FirstName
	default:
		return p.LastName
	}
}
