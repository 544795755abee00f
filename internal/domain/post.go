package domain

import (
	"context"
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// PostType describes the content mix of a post.
type PostType string

const (
	PostTypeText          PostType = "text"
	PostTypeImage         PostType = "image"
	PostTypeTextWithImage PostType = "text_with_image"
)

// Post is a feed entry authored by one user. Likes holds the ids of users
// who currently like the post; liking is a toggle.
type Post struct {
	ID        *surrealmodels.RecordID `json:"id,omitempty"`
	UserID    string                  `json:"user_id"`
	Content   string                  `json:"content,omitempty"`
	ImageURLs []string                `json:"image_urls"`
	PostType  PostType                `json:"post_type"`
	Likes     []string                `json:"likes"`
	CreatedAt time.Time               `json:"created_at"`
}

// FeedPost is a post joined with its author for display.
type FeedPost struct {
	Post
	Author User `json:"author"`
}

// PostRepository defines the contract for post storage operations.
type PostRepository interface {
	Create(ctx context.Context, post *Post) (*Post, error)
	Feed(ctx context.Context, userIDs []string) ([]FeedPost, error)
	// ToggleLike flips userID's like on the post and reports whether the
	// post is liked after the call.
	ToggleLike(ctx context.Context, postID, userID string) (bool, error)
}
