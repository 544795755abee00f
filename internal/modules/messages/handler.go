package messages

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"linkup/internal/domain"
	"linkup/internal/middleware"
	"linkup/internal/storage"
)

// Handler serves the direct message REST endpoints. Live delivery is not
// triggered here; the announcer picks up every created record from the
// database change feed.
type Handler struct {
	store domain.MessageRepository
	blobs storage.Store
	cdn   *storage.ImageCDN
}

// NewHandler creates the messages handler.
func NewHandler(store domain.MessageRepository, blobs storage.Store, cdn *storage.ImageCDN) *Handler {
	return &Handler{store: store, blobs: blobs, cdn: cdn}
}

type response struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	Data     any    `json:"data,omitempty"`
	Messages any    `json:"messages,omitempty"`
}

// Send persists a new direct message from a multipart form: "to_user_id",
// optional "text", optional "image" file. An image-only message gets a media
// URL and no text.
func (h *Handler) Send(c echo.Context) error {
	userID := middleware.UserID(c)
	ctx := c.Request().Context()

	toUserID := c.FormValue("to_user_id")
	if toUserID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "to_user_id is required")
	}

	msg := &domain.Message{
		FromUserID:  userID,
		ToUserID:    toUserID,
		Text:        c.FormValue("text"),
		MessageType: domain.MessageTypeText,
	}

	if fh, err := c.FormFile("image"); err == nil {
		path, err := storage.SaveUpload(ctx, h.blobs, "messages", fh)
		if err != nil {
			if errors.Is(err, storage.ErrNotAnImage) {
				return c.JSON(http.StatusOK, response{Success: false, Message: "only image uploads are allowed"})
			}
			middleware.FromContext(ctx).Error("Message image upload failed", "userID", userID, "error", err)
			return c.JSON(http.StatusOK, response{Success: false, Message: "upload failed"})
		}
		msg.MediaURL = h.cdn.MessageImageURL(path)
		msg.MessageType = domain.MessageTypeImage
	}

	if msg.Text == "" && msg.MediaURL == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message is empty")
	}

	created, err := h.store.Create(ctx, msg)
	if err != nil {
		if errors.Is(err, domain.ErrSelfTarget) {
			return c.JSON(http.StatusOK, response{Success: false, Message: "cannot message yourself"})
		}
		middleware.FromContext(ctx).Error("Failed to create message", "userID", userID, "error", err)
		return c.JSON(http.StatusOK, response{Success: false, Message: "could not send message"})
	}
	return c.JSON(http.StatusOK, response{Success: true, Data: created})
}

type conversationRequest struct {
	ToUserID string `json:"to_user_id" validate:"required"`
}

// Get returns the full conversation with one peer, oldest first, marking
// messages addressed to the caller as seen.
func (h *Handler) Get(c echo.Context) error {
	var req conversationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	messages, err := h.store.Conversation(c.Request().Context(), middleware.UserID(c), req.ToUserID)
	if err != nil {
		middleware.FromContext(c.Request().Context()).Error("Failed to load conversation", "error", err)
		return c.JSON(http.StatusOK, response{Success: false, Message: "could not load conversation"})
	}
	return c.JSON(http.StatusOK, response{Success: true, Messages: messages})
}

// Recent returns the newest message of each of the caller's conversations.
func (h *Handler) Recent(c echo.Context) error {
	messages, err := h.store.Recent(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		middleware.FromContext(c.Request().Context()).Error("Failed to load recent messages", "error", err)
		return c.JSON(http.StatusOK, response{Success: false, Message: "could not load messages"})
	}
	return c.JSON(http.StatusOK, response{Success: true, Messages: messages})
}
