package live

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewNotification(t *testing.T) {
	msg := Message{ID: "message:1", FromUserID: "user_b", Text: "hello"}

	t.Run("carries the full message and sender", func(t *testing.T) {
		n := NewNotification(msg, 3*time.Second)
		assert.Equal(t, "user_b", n.FromUserID)
		assert.Equal(t, msg, n.Message)
		assert.Equal(t, int64(3000), n.ExpiresInMS)
		assert.NotEmpty(t, n.ID)
	})

	t.Run("falls back to the default TTL", func(t *testing.T) {
		n := NewNotification(msg, 0)
		assert.Equal(t, DefaultNotificationTTL.Milliseconds(), n.ExpiresInMS)
	})

	t.Run("ids are unique per notification", func(t *testing.T) {
		a := NewNotification(msg, time.Second)
		b := NewNotification(msg, time.Second)
		assert.NotEqual(t, a.ID, b.ID)
	})
}

func TestNotificationPreview(t *testing.T) {
	t.Run("uses the message text", func(t *testing.T) {
		n := NewNotification(Message{Text: "short"}, time.Second)
		assert.Equal(t, "short", n.Preview)
	})

	t.Run("truncates long text on rune boundaries", func(t *testing.T) {
		long := strings.Repeat("ü", 200)
		n := NewNotification(Message{Text: long}, time.Second)
		assert.Equal(t, strings.Repeat("ü", 120)+"…", n.Preview)
	})

	t.Run("describes image-only messages", func(t *testing.T) {
		n := NewNotification(Message{MediaURL: "https://cdn/img.webp"}, time.Second)
		assert.Equal(t, "Sent you an image", n.Preview)
	})
}
