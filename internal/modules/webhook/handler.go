package webhook

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v4"

	"linkup/internal/identity"
	"linkup/internal/middleware"
	"linkup/internal/pubsub"
)

// maxBodyBytes caps a webhook request body.
const maxBodyBytes = 1 << 20 // 1 MiB

// Handler receives identity provider webhooks, verifies their signature and
// relays the events onto the bus. It does not touch the database; the
// usersync module applies the events.
type Handler struct {
	secret    string
	publisher pubsub.Publisher
}

// NewHandler creates the webhook handler. An empty secret disables
// verification, which is only acceptable in development.
func NewHandler(secret string, publisher pubsub.Publisher) *Handler {
	if secret == "" {
		slog.Warn("Webhook signature verification disabled; set IDENTITY_WEBHOOK_SECRET in production")
	}
	return &Handler{secret: secret, publisher: publisher}
}

// Receive handles one webhook delivery. Unknown event types are
// acknowledged and dropped so the provider does not retry them.
func (h *Handler) Receive(c echo.Context) error {
	log := middleware.FromContext(c.Request().Context())

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBodyBytes))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable body")
	}

	if h.secret != "" {
		headers := SignatureHeaders{
			ID:        c.Request().Header.Get("svix-id"),
			Timestamp: c.Request().Header.Get("svix-timestamp"),
			Signature: c.Request().Header.Get("svix-signature"),
		}
		if err := verifySignature(h.secret, headers, body, time.Now()); err != nil {
			log.Warn("Rejected webhook with bad signature", "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid signature")
		}
	}

	var event identity.Event
	if err := json.Unmarshal(body, &event); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed event")
	}

	topic := identity.TopicFor(event.Type)
	if topic == "" {
		log.Debug("Ignoring webhook event", "type", event.Type)
		return c.NoContent(http.StatusNoContent)
	}

	if err := h.publisher.Publish(c.Request().Context(), pubsub.Message{
		Topic:   topic,
		Payload: event.Data,
	}); err != nil {
		log.Error("Failed to relay webhook event", "type", event.Type, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "relay failed")
	}

	log.Info("Relayed identity event", "type", event.Type)
	return c.NoContent(http.StatusNoContent)
}
