package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImageCDNURLs(t *testing.T) {
	cdn := NewImageCDN("https://cdn.example.com/")

	assert.Equal(t, "https://cdn.example.com/tr:q-auto,f-webp,w-1280/posts/a.png", cdn.PostImageURL("posts/a.png"))
	assert.Equal(t, "https://cdn.example.com/tr:q-auto,f-webp,w-512/avatars/b.png", cdn.AvatarURL("/avatars/b.png"))
	assert.Equal(t, "https://cdn.example.com/tr:q-auto,f-webp,w-1600/covers/c.png", cdn.CoverURL("covers/c.png"))
	assert.Equal(t, "https://cdn.example.com/tr:q-auto,f-webp,w-960/messages/d.png", cdn.MessageImageURL("messages/d.png"))
}
