package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopicFor(t *testing.T) {
	assert.Equal(t, TopicUserCreated, TopicFor(EventUserCreated))
	assert.Equal(t, TopicUserUpdated, TopicFor(EventUserUpdated))
	assert.Equal(t, TopicUserDeleted, TopicFor(EventUserDeleted))
	assert.Empty(t, TopicFor("session.created"))
}

func TestUserPayloadPrimaryEmail(t *testing.T) {
	payload := UserPayload{
		PrimaryEmailAddressID: "em_2",
		EmailAddresses: []EmailAddress{
			{ID: "em_1", EmailAddress: "first@example.com"},
			{ID: "em_2", EmailAddress: "primary@example.com"},
		},
	}
	assert.Equal(t, "primary@example.com", payload.PrimaryEmail())

	payload.PrimaryEmailAddressID = "em_missing"
	assert.Equal(t, "first@example.com", payload.PrimaryEmail(), "falls back to the first address")

	assert.Empty(t, UserPayload{}.PrimaryEmail())
}

func TestUserPayloadFullName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", UserPayload{FirstName: "Ada", LastName: "Lovelace"}.FullName())
	assert.Equal(t, "Ada", UserPayload{FirstName: "Ada"}.FullName())
	assert.Equal(t, "Lovelace", UserPayload{LastName: "Lovelace"}.FullName())
	assert.Empty(t, UserPayload{}.FullName())
}
