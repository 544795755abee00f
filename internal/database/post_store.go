package database

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/surrealdb/surrealdb.go"

	"linkup/internal/domain"
)

// PostStore encapsulates database operations for feed posts.
type PostStore struct {
	db *surrealdb.DB
}

// NewPostStore creates a new PostStore.
func NewPostStore(db *surrealdb.DB) *PostStore {
	return &PostStore{db: db}
}

var _ domain.PostRepository = (*PostStore)(nil)

// Create persists a new post and returns it with its record id.
func (s *PostStore) Create(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}
	if post.ImageURLs == nil {
		post.ImageURLs = []string{}
	}

	query := `
		CREATE post CONTENT {
			user_id: $user_id,
			content: $content,
			image_urls: $image_urls,
			post_type: $post_type,
			likes: [],
			created_at: $created_at
		}
	`
	params := map[string]any{
		"user_id":    post.UserID,
		"content":    post.Content,
		"image_urls": post.ImageURLs,
		"post_type":  string(post.PostType),
		"created_at": post.CreatedAt.Format(time.RFC3339),
	}

	created, err := QueryOne[domain.Post](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	if created == nil {
		return nil, fmt.Errorf("post creation returned no record")
	}
	return created, nil
}

// Feed returns the posts authored by any of the given users, newest first,
// each joined with its author.
func (s *PostStore) Feed(ctx context.Context, userIDs []string) ([]domain.FeedPost, error) {
	ids := lo.Uniq(userIDs)
	if len(ids) == 0 {
		return []domain.FeedPost{}, nil
	}

	query := "SELECT * FROM post WHERE user_id IN $ids ORDER BY created_at DESC"
	posts, err := Query[domain.Post](ctx, s.db, query, map[string]any{"ids": ids})
	if err != nil {
		return nil, fmt.Errorf("feed query failed: %w", err)
	}

	authorIDs := lo.Uniq(lo.Map(posts, func(p domain.Post, _ int) string { return p.UserID }))
	authorsQuery := "SELECT * FROM user WHERE record::id(id) IN $ids"
	authors, err := Query[domain.User](ctx, s.db, authorsQuery, map[string]any{
		"ids": lo.Map(authorIDs, func(id string, _ int) any { return id }),
	})
	if err != nil {
		return nil, fmt.Errorf("feed author query failed: %w", err)
	}
	byID := lo.KeyBy(authors, func(u domain.User) string { return u.ExternalID() })

	feed := make([]domain.FeedPost, 0, len(posts))
	for _, p := range posts {
		feed = append(feed, domain.FeedPost{Post: p, Author: byID[p.UserID]})
	}
	return feed, nil
}

// ToggleLike flips the user's like on a post and reports the resulting
// state. The read-modify-write mirrors how likes behave as a toggle in the
// client.
func (s *PostStore) ToggleLike(ctx context.Context, postID, userID string) (bool, error) {
	query := "SELECT * FROM type::thing('post', $id)"
	post, err := QueryOne[domain.Post](ctx, s.db, query, map[string]any{"id": postID})
	if err != nil {
		return false, fmt.Errorf("failed to load post: %w", err)
	}
	if post == nil {
		return false, domain.ErrPostNotFound
	}

	liked := !lo.Contains(post.Likes, userID)
	var update string
	if liked {
		update = "UPDATE type::thing('post', $id) SET likes += $user WHERE $user NOT IN likes"
	} else {
		update = "UPDATE type::thing('post', $id) SET likes -= $user"
	}
	if err := Execute(ctx, s.db, update, map[string]any{"id": postID, "user": userID}); err != nil {
		return false, fmt.Errorf("failed to toggle like: %w", err)
	}
	return liked, nil
}
