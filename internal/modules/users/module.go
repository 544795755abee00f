package users

import (
	"context"

	"github.com/labstack/echo/v4"

	"linkup/internal/database"
	"linkup/internal/module"
	"linkup/internal/registry"
)

// UsersModule owns user profiles and the social graph: discover,
// follow/unfollow, and connection requests. It also hosts the token
// exchange that issues the cookie session used by the live stream.
type UsersModule struct {
	module.BaseModule
}

// Name returns the unique name for the module.
func (m *UsersModule) Name() string {
	return "users"
}

// Register binds the user store into the registry.
func (m *UsersModule) Register(reg *registry.Registry) error {
	db := registry.MustGet(reg, registry.KeyDB)
	registry.Set(reg, registry.KeyUserStore, database.NewUserStore(db))
	return nil
}

// Boot wires the HTTP routes.
func (m *UsersModule) Boot(ctx context.Context, g *echo.Group, reg *registry.Registry) error {
	auth := registry.MustGet(reg, registry.KeyAuthenticator)
	handler := NewHandler(
		registry.MustGet(reg, registry.KeyUserStore),
		registry.MustGet(reg, registry.KeyBlobStore),
		registry.MustGet(reg, registry.KeyImageCDN),
	)

	g.POST("/auth/session", handler.ExchangeSession, auth.RequireBearer())

	users := g.Group("/users", auth.RequireBearer())
	users.GET("/data", handler.Data)
	users.POST("/update", handler.Update)
	users.POST("/discover", handler.Discover)
	users.POST("/follow", handler.Follow)
	users.POST("/unfollow", handler.Unfollow)
	users.POST("/connect", handler.Connect)
	users.POST("/accept", handler.Accept)
	users.GET("/connections", handler.Connections)
	return nil
}
