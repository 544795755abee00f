package live

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestSession(userID, clientID string) *Session {
	return &Session{
		ClientID: clientID,
		UserID:   userID,
		Route:    NewRouteCell(),
	}
}

func TestManagerTracksSessionsPerUser(t *testing.T) {
	m := NewManager()
	m.Add(newTestSession("user_a", "tab1"))
	m.Add(newTestSession("user_a", "tab2"))
	m.Add(newTestSession("user_b", "tab1"))

	assert.Equal(t, 2, m.Count("user_a"))
	assert.Equal(t, 1, m.Count("user_b"))

	m.Remove("user_a", "tab1")
	assert.Equal(t, 1, m.Count("user_a"))

	m.Remove("user_a", "tab2")
	assert.Equal(t, 0, m.Count("user_a"))

	// Removing an unknown session is a no-op.
	m.Remove("user_c", "tab1")
}

func TestManagerSetRoute(t *testing.T) {
	m := NewManager()
	s1 := newTestSession("user_a", "tab1")
	s2 := newTestSession("user_a", "tab2")
	m.Add(s1)
	m.Add(s2)

	t.Run("updates only the addressed session", func(t *testing.T) {
		assert.True(t, m.SetRoute("user_a", "tab1", "user_b"))
		assert.Equal(t, "user_b", s1.Route.Current())
		assert.Empty(t, s2.Route.Current())
	})

	t.Run("empty peer clears the route", func(t *testing.T) {
		assert.True(t, m.SetRoute("user_a", "tab1", ""))
		assert.Empty(t, s1.Route.Current())
	})

	t.Run("unknown sessions are reported", func(t *testing.T) {
		assert.False(t, m.SetRoute("user_a", "gone", "user_b"))
		assert.False(t, m.SetRoute("user_z", "tab1", "user_b"))
	})
}
