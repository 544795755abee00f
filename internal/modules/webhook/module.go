package webhook

import (
	"context"

	"github.com/labstack/echo/v4"

	"linkup/internal/middleware"
	"linkup/internal/module"
	"linkup/internal/registry"
)

// WebhookModule exposes the inbound identity webhook endpoint.
type WebhookModule struct {
	module.BaseModule
}

// Name returns the unique name for the module.
func (m *WebhookModule) Name() string {
	return "webhook"
}

// Boot wires the HTTP route. The endpoint carries no bearer auth; signature
// verification stands in for it.
func (m *WebhookModule) Boot(ctx context.Context, g *echo.Group, reg *registry.Registry) error {
	handler := NewHandler(
		reg.Config().WebhookSecret,
		registry.MustGet(reg, registry.KeyPublisher),
	)
	g.POST("/webhooks/identity", handler.Receive, middleware.RateLimiter())
	return nil
}
