package feed

import (
	"context"

	"github.com/labstack/echo/v4"

	"linkup/internal/database"
	"linkup/internal/module"
	"linkup/internal/registry"
)

// FeedModule owns posts: creation with image uploads, the connection-scoped
// feed, and the like toggle.
type FeedModule struct {
	module.BaseModule
}

// Name returns the unique name for the module.
func (m *FeedModule) Name() string {
	return "feed"
}

// Register binds the post store into the registry.
func (m *FeedModule) Register(reg *registry.Registry) error {
	db := registry.MustGet(reg, registry.KeyDB)
	registry.Set(reg, registry.KeyPostStore, database.NewPostStore(db))
	return nil
}

// Boot wires the HTTP routes.
func (m *FeedModule) Boot(ctx context.Context, g *echo.Group, reg *registry.Registry) error {
	auth := registry.MustGet(reg, registry.KeyAuthenticator)
	handler := NewHandler(
		registry.MustGet(reg, registry.KeyPostStore),
		registry.MustGet(reg, registry.KeyUserStore),
		registry.MustGet(reg, registry.KeyBlobStore),
		registry.MustGet(reg, registry.KeyImageCDN),
	)

	posts := g.Group("/posts", auth.RequireBearer())
	posts.POST("/add", handler.Add)
	posts.GET("/feed", handler.Feed)
	posts.POST("/like", handler.Like)
	return nil
}
