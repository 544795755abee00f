package feed

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"linkup/internal/domain"
	"linkup/internal/middleware"
	"linkup/internal/storage"
)

// Handler serves the post endpoints.
type Handler struct {
	posts domain.PostRepository
	users domain.UserRepository
	blobs storage.Store
	cdn   *storage.ImageCDN
}

// NewHandler creates the feed handler.
func NewHandler(posts domain.PostRepository, users domain.UserRepository, blobs storage.Store, cdn *storage.ImageCDN) *Handler {
	return &Handler{posts: posts, users: users, blobs: blobs, cdn: cdn}
}

type response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Posts   any    `json:"posts,omitempty"`
}

// Add creates a post from a multipart form: a "content" field, a
// "post_type" field, and any number of "images" files. Images are stored
// and their CDN display URLs recorded on the post.
func (h *Handler) Add(c echo.Context) error {
	userID := middleware.UserID(c)
	ctx := c.Request().Context()

	content := c.FormValue("content")
	postType := domain.PostType(c.FormValue("post_type"))
	switch postType {
	case domain.PostTypeText, domain.PostTypeImage, domain.PostTypeTextWithImage:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "invalid post_type")
	}

	var imageURLs []string
	if form, err := c.MultipartForm(); err == nil {
		for _, fh := range form.File["images"] {
			path, err := storage.SaveUpload(ctx, h.blobs, "posts", fh)
			if err != nil {
				if errors.Is(err, storage.ErrNotAnImage) {
					return c.JSON(http.StatusOK, response{Success: false, Message: "only image uploads are allowed"})
				}
				middleware.FromContext(ctx).Error("Post image upload failed", "userID", userID, "error", err)
				return c.JSON(http.StatusOK, response{Success: false, Message: "upload failed"})
			}
			imageURLs = append(imageURLs, h.cdn.PostImageURL(path))
		}
	}

	if content == "" && len(imageURLs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "post is empty")
	}

	if _, err := h.posts.Create(ctx, &domain.Post{
		UserID:    userID,
		Content:   content,
		ImageURLs: imageURLs,
		PostType:  postType,
	}); err != nil {
		middleware.FromContext(ctx).Error("Failed to create post", "userID", userID, "error", err)
		return c.JSON(http.StatusOK, response{Success: false, Message: "could not create post"})
	}
	return c.JSON(http.StatusOK, response{Success: true, Message: "Post created successfully"})
}

// Feed returns posts by the caller, their connections and the users they
// follow, newest first.
func (h *Handler) Feed(c echo.Context) error {
	userID := middleware.UserID(c)
	ctx := c.Request().Context()

	user, err := h.users.Get(ctx, userID)
	if err != nil {
		middleware.FromContext(ctx).Error("Failed to load user for feed", "userID", userID, "error", err)
		return c.JSON(http.StatusOK, response{Success: false, Message: "could not load feed"})
	}

	ids := lo.Uniq(append(append([]string{userID}, user.Connections...), user.Following...))
	posts, err := h.posts.Feed(ctx, ids)
	if err != nil {
		middleware.FromContext(ctx).Error("Failed to load feed", "userID", userID, "error", err)
		return c.JSON(http.StatusOK, response{Success: false, Message: "could not load feed"})
	}
	return c.JSON(http.StatusOK, response{Success: true, Posts: posts})
}

type likeRequest struct {
	PostID string `json:"post_id" validate:"required"`
}

// Like toggles the caller's like on a post.
func (h *Handler) Like(c echo.Context) error {
	var req likeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	liked, err := h.posts.ToggleLike(c.Request().Context(), req.PostID, middleware.UserID(c))
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			return c.JSON(http.StatusOK, response{Success: false, Message: "post not found"})
		}
		middleware.FromContext(c.Request().Context()).Error("Failed to toggle like", "error", err)
		return c.JSON(http.StatusOK, response{Success: false, Message: "could not update like"})
	}

	message := "Post unliked"
	if liked {
		message = "Post liked"
	}
	return c.JSON(http.StatusOK, response{Success: true, Message: message})
}
