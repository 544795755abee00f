package users

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"linkup/internal/domain"
	"linkup/internal/middleware"
	"linkup/internal/storage"
)

// Handler serves the user-facing profile and social graph endpoints.
type Handler struct {
	store domain.UserRepository
	blobs storage.Store
	cdn   *storage.ImageCDN
}

// NewHandler creates the users handler.
func NewHandler(store domain.UserRepository, blobs storage.Store, cdn *storage.ImageCDN) *Handler {
	return &Handler{store: store, blobs: blobs, cdn: cdn}
}

// response is the JSON envelope the SPA expects on every endpoint.
type response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	User    any    `json:"user,omitempty"`
	Users   any    `json:"users,omitempty"`
}

// ExchangeSession turns a valid bearer token into a cookie session so the
// browser's EventSource (which cannot send headers) can reach the live
// stream.
func (h *Handler) ExchangeSession(c echo.Context) error {
	userID := middleware.UserID(c)
	if err := middleware.IssueSession(c, userID); err != nil {
		middleware.FromContext(c.Request().Context()).Error("Failed to issue session", "userID", userID, "error", err)
		return c.JSON(http.StatusInternalServerError, response{Success: false, Message: "could not create session"})
	}
	return c.JSON(http.StatusOK, response{Success: true})
}

// Data returns the authenticated user's record, creating a placeholder on
// first sight. The webhook-driven sync fills in real identity details; this
// fallback only covers the gap between first sign-in and that event.
func (h *Handler) Data(c echo.Context) error {
	userID := middleware.UserID(c)

	user, err := h.store.Get(c.Request().Context(), userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		user, err = h.store.UpsertFromIdentity(c.Request().Context(), domain.IdentityUser{
			ID:       userID,
			Email:    userID + "@placeholder.invalid",
			Username: fmt.Sprintf("user_%d", time.Now().UnixMilli()),
		})
	}
	if err != nil {
		middleware.FromContext(c.Request().Context()).Error("Failed to load user", "userID", userID, "error", err)
		return c.JSON(http.StatusOK, response{Success: false, Message: "could not load user"})
	}
	return c.JSON(http.StatusOK, response{Success: true, User: user})
}

// Update applies a profile update from a multipart form. The optional
// "profile" and "cover" files are stored and replaced by their CDN URLs.
func (h *Handler) Update(c echo.Context) error {
	userID := middleware.UserID(c)
	ctx := c.Request().Context()

	update := domain.ProfileUpdate{}
	formField := func(name string) *string {
		if v := c.FormValue(name); v != "" {
			return &v
		}
		return nil
	}
	update.Username = formField("username")
	update.FullName = formField("full_name")
	update.Bio = formField("bio")
	update.Location = formField("location")

	if fh, err := c.FormFile("profile"); err == nil {
		path, err := storage.SaveUpload(ctx, h.blobs, "avatars", fh)
		if err != nil {
			return uploadError(c, err)
		}
		url := h.cdn.AvatarURL(path)
		update.ProfilePicture = &url
	}
	if fh, err := c.FormFile("cover"); err == nil {
		path, err := storage.SaveUpload(ctx, h.blobs, "covers", fh)
		if err != nil {
			return uploadError(c, err)
		}
		url := h.cdn.CoverURL(path)
		update.CoverPhoto = &url
	}

	user, err := h.store.UpdateProfile(ctx, userID, update)
	if err != nil {
		middleware.FromContext(ctx).Error("Failed to update profile", "userID", userID, "error", err)
		return c.JSON(http.StatusOK, response{Success: false, Message: "could not update profile"})
	}
	return c.JSON(http.StatusOK, response{Success: true, Message: "Profile updated successfully", User: user})
}

type discoverRequest struct {
	Input string `json:"input" validate:"required,min=1"`
}

// Discover searches users by name, username, email or location.
func (h *Handler) Discover(c echo.Context) error {
	var req discoverRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	users, err := h.store.Discover(c.Request().Context(), middleware.UserID(c), req.Input)
	if err != nil {
		middleware.FromContext(c.Request().Context()).Error("Discover failed", "error", err)
		return c.JSON(http.StatusOK, response{Success: false, Message: "search failed"})
	}
	return c.JSON(http.StatusOK, response{Success: true, Users: users})
}

type targetRequest struct {
	ID string `json:"id" validate:"required"`
}

// Follow adds the target to the caller's following list.
func (h *Handler) Follow(c echo.Context) error {
	return h.graphOp(c, h.store.Follow, "Now following")
}

// Unfollow removes the target from the caller's following list.
func (h *Handler) Unfollow(c echo.Context) error {
	return h.graphOp(c, h.store.Unfollow, "No longer following")
}

// Connect sends a connection request to the target.
func (h *Handler) Connect(c echo.Context) error {
	return h.graphOp(c, h.store.Connect, "Connection request sent")
}

// Accept accepts a pending connection request from the target.
func (h *Handler) Accept(c echo.Context) error {
	return h.graphOp(c, h.store.Accept, "Connection accepted")
}

func (h *Handler) graphOp(c echo.Context, op func(ctx context.Context, userID, targetID string) error, okMessage string) error {
	var req targetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err := op(c.Request().Context(), middleware.UserID(c), req.ID)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, response{Success: true, Message: okMessage})
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrSelfTarget),
		errors.Is(err, domain.ErrAlreadyConnected),
		errors.Is(err, domain.ErrConnectionPending):
		return c.JSON(http.StatusOK, response{Success: false, Message: err.Error()})
	default:
		middleware.FromContext(c.Request().Context()).Error("Social graph operation failed", "error", err)
		return c.JSON(http.StatusOK, response{Success: false, Message: "operation failed"})
	}
}

// Connections returns the caller's connections page data.
func (h *Handler) Connections(c echo.Context) error {
	overview, err := h.store.Overview(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		middleware.FromContext(c.Request().Context()).Error("Failed to load connections", "error", err)
		return c.JSON(http.StatusOK, response{Success: false, Message: "could not load connections"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success":     true,
		"connections": overview.Connections,
		"followers":   overview.Followers,
		"following":   overview.Following,
		"pending":     overview.Pending,
	})
}

func uploadError(c echo.Context, err error) error {
	if errors.Is(err, storage.ErrNotAnImage) {
		return c.JSON(http.StatusOK, response{Success: false, Message: "only image uploads are allowed"})
	}
	middleware.FromContext(c.Request().Context()).Error("Upload failed", "error", err)
	return c.JSON(http.StatusOK, response{Success: false, Message: "upload failed"})
}
