package live

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoute(t *testing.T) {
	msg := Message{FromUserID: "user_b", ToUserID: "user_a"}

	t.Run("merges when the sender's conversation is open", func(t *testing.T) {
		assert.Equal(t, DecisionMerge, Route(msg, "user_b"))
	})

	t.Run("notifies when a different conversation is open", func(t *testing.T) {
		assert.Equal(t, DecisionNotify, Route(msg, "user_c"))
	})

	t.Run("notifies when no conversation is open", func(t *testing.T) {
		assert.Equal(t, DecisionNotify, Route(msg, ""))
	})
}

func TestRouteCell(t *testing.T) {
	cell := NewRouteCell()
	assert.Empty(t, cell.Current())

	cell.Set("user_b")
	assert.Equal(t, "user_b", cell.Current())

	cell.Set("user_c")
	assert.Equal(t, "user_c", cell.Current())

	cell.Clear()
	assert.Empty(t, cell.Current())
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "merge", DecisionMerge.String())
	assert.Equal(t, "notify", DecisionNotify.String())
}
