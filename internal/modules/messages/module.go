package messages

import (
	"context"

	"github.com/labstack/echo/v4"

	"linkup/internal/database"
	"linkup/internal/live"
	"linkup/internal/middleware"
	"linkup/internal/module"
	"linkup/internal/registry"
)

// MessagesModule owns direct messaging: the REST endpoints, the live update
// channel (SSE and WebSocket), and the announcer that bridges new database
// records onto the bus.
type MessagesModule struct {
	module.BaseModule
	announcer *Announcer
}

// Name returns the unique name for the module.
func (m *MessagesModule) Name() string {
	return "messages"
}

// Register binds the message store and the live session manager.
func (m *MessagesModule) Register(reg *registry.Registry) error {
	db := registry.MustGet(reg, registry.KeyDB)
	registry.Set(reg, registry.KeyMessageStore, database.NewMessageStore(db))
	registry.Set(reg, registry.KeyLiveManager, live.NewManager())
	return nil
}

// Boot wires the HTTP routes and starts the message announcer.
func (m *MessagesModule) Boot(ctx context.Context, g *echo.Group, reg *registry.Registry) error {
	auth := registry.MustGet(reg, registry.KeyAuthenticator)
	handler := NewHandler(
		registry.MustGet(reg, registry.KeyMessageStore),
		registry.MustGet(reg, registry.KeyBlobStore),
		registry.MustGet(reg, registry.KeyImageCDN),
	)
	stream := NewStreamHandler(
		registry.MustGet(reg, registry.KeyLiveManager),
		registry.MustGet(reg, registry.KeySubscriber),
		reg.Config().NotificationTTL,
	)

	msgs := g.Group("/messages", auth.RequireBearer())
	msgs.POST("/send", handler.Send)
	msgs.POST("/get", handler.Get)
	msgs.GET("/recent", handler.Recent)

	// The browser's EventSource cannot send an Authorization header, so the
	// live routes authenticate with the cookie session instead.
	lv := g.Group("/live", middleware.RequireSession())
	lv.GET("/stream", stream.Stream)
	lv.GET("/ws", stream.WS)
	lv.PUT("/route", stream.Route)

	m.announcer = NewAnnouncer(
		registry.MustGet(reg, registry.KeyLiveQuery),
		registry.MustGet(reg, registry.KeyPublisher),
	)
	return m.announcer.Start(ctx)
}

// Shutdown stops the announcer.
func (m *MessagesModule) Shutdown(ctx context.Context) error {
	if m.announcer != nil {
		m.announcer.Stop()
	}
	return nil
}
