package messages

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"linkup/internal/live"
	"linkup/internal/middleware"
	"linkup/internal/pubsub"
)

// StreamHandler owns the live endpoints: the SSE stream, the WebSocket
// stream, and the navigation endpoint that tells the server which
// conversation a client has open. Both stream flavors sit on the same
// channel; only the transport differs.
type StreamHandler struct {
	manager *live.Manager
	sub     pubsub.Subscriber
	ttl     time.Duration
}

// NewStreamHandler creates the live stream handler.
func NewStreamHandler(manager *live.Manager, sub pubsub.Subscriber, notificationTTL time.Duration) *StreamHandler {
	return &StreamHandler{manager: manager, sub: sub, ttl: notificationTTL}
}

// Stream serves one server-sent event stream for the signed-in user. The
// first event is "hello" carrying the client id; the client echoes that id
// on every route update. The handler blocks until the client disconnects or
// the channel closes.
func (h *StreamHandler) Stream(c echo.Context) error {
	userID := middleware.UserID(c)

	transport, err := live.NewSSETransport(c.Response())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "streaming unsupported")
	}

	return h.serve(c.Request().Context(), userID, transport)
}

// WS serves the same stream over a WebSocket, for clients that prefer a
// socket. The server never reads application frames; reads only watch for
// the peer closing.
func (h *StreamHandler) WS(c echo.Context) error {
	userID := middleware.UserID(c)

	conn, err := websocket.Accept(c.Response(), c.Request(), nil)
	if err != nil {
		middleware.FromContext(c.Request().Context()).Debug("WebSocket accept failed", "userID", userID, "error", err)
		return nil
	}

	ctx := conn.CloseRead(c.Request().Context())
	return h.serve(ctx, userID, live.NewWSTransport(conn))
}

// serve runs one live session to completion on an attached transport. The
// context ends when the client goes away.
func (h *StreamHandler) serve(ctx context.Context, userID string, transport live.Transport) error {
	route := live.NewRouteCell()
	channel := live.NewChannel(userID, route, h.sub, h.ttl)
	if err := channel.Open(ctx, transport); err != nil {
		middleware.FromContext(ctx).Error("Failed to open live channel", "userID", userID, "error", err)
		transport.Close()
		return nil
	}

	clientID := uuid.NewString()
	h.manager.Add(&live.Session{
		ClientID: clientID,
		UserID:   userID,
		Channel:  channel,
		Route:    route,
	})
	defer func() {
		h.manager.Remove(userID, clientID)
		channel.Close()
	}()

	hello, err := json.Marshal(map[string]string{"client_id": clientID})
	if err == nil {
		if err := transport.Send(live.EventHello, hello); err != nil {
			return nil
		}
	}

	select {
	case <-ctx.Done():
	case <-channel.Done():
	}
	return nil
}

type routeRequest struct {
	ClientID string `json:"client_id" validate:"required"`
	// PeerUserID is the user whose conversation is now open; empty means the
	// client navigated away from any conversation.
	PeerUserID string `json:"peer_user_id"`
}

// Route records which conversation a client currently has open, which
// decides merge-versus-notify for its stream.
func (h *StreamHandler) Route(c echo.Context) error {
	var req routeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if !h.manager.SetRoute(middleware.UserID(c), req.ClientID, req.PeerUserID) {
		return echo.NewHTTPError(http.StatusNotFound, "unknown stream")
	}
	return c.JSON(http.StatusOK, response{Success: true})
}
