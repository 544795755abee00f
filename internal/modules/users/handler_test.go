package users

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkup/internal/domain"
	"linkup/internal/middleware"
)

type testValidator struct{ v *validator.Validate }

func (t *testValidator) Validate(i any) error { return t.v.Struct(i) }

type mockUserStore struct {
	domain.UserRepository

	getUser    *domain.User
	getErr     error
	upserted   []domain.IdentityUser
	followed   []string
	followErr  error
	discovered string
}

func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	return m.getUser, m.getErr
}

func (m *mockUserStore) UpsertFromIdentity(ctx context.Context, id domain.IdentityUser) (*domain.User, error) {
	m.upserted = append(m.upserted, id)
	return &domain.User{Email: id.Email, Username: id.Username}, nil
}

func (m *mockUserStore) Follow(ctx context.Context, userID, targetID string) error {
	if m.followErr != nil {
		return m.followErr
	}
	m.followed = append(m.followed, targetID)
	return nil
}

func (m *mockUserStore) Discover(ctx context.Context, selfID, query string) ([]domain.User, error) {
	m.discovered = query
	return []domain.User{{Username: "ada"}}, nil
}

func jsonContext(t *testing.T, userID, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = &testValidator{v: validator.New()}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.UserIDContextKey, userID)
	return c, rec
}

func TestDataCreatesPlaceholderOnFirstSight(t *testing.T) {
	store := &mockUserStore{getErr: domain.ErrUserNotFound}
	h := NewHandler(store, nil, nil)

	c, rec := jsonContext(t, "user_new", "")
	require.NoError(t, h.Data(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, store.upserted, 1)
	assert.Equal(t, "user_new", store.upserted[0].ID)
	assert.NotEmpty(t, store.upserted[0].Email)
}

func TestDataReturnsExistingUser(t *testing.T) {
	store := &mockUserStore{getUser: &domain.User{Username: "ada"}}
	h := NewHandler(store, nil, nil)

	c, rec := jsonContext(t, "user_a", "")
	require.NoError(t, h.Data(c))

	assert.Contains(t, rec.Body.String(), `"ada"`)
	assert.Empty(t, store.upserted)
}

func TestFollow(t *testing.T) {
	t.Run("follows the target", func(t *testing.T) {
		store := &mockUserStore{}
		h := NewHandler(store, nil, nil)

		c, rec := jsonContext(t, "user_a", `{"id":"user_b"}`)
		require.NoError(t, h.Follow(c))
		assert.Contains(t, rec.Body.String(), "Now following")
		assert.Equal(t, []string{"user_b"}, store.followed)
	})

	t.Run("surfaces domain errors as messages", func(t *testing.T) {
		store := &mockUserStore{followErr: domain.ErrSelfTarget}
		h := NewHandler(store, nil, nil)

		c, rec := jsonContext(t, "user_a", `{"id":"user_a"}`)
		require.NoError(t, h.Follow(c))
		assert.Contains(t, rec.Body.String(), `"success":false`)
	})

	t.Run("rejects a missing target id", func(t *testing.T) {
		h := NewHandler(&mockUserStore{}, nil, nil)

		c, _ := jsonContext(t, "user_a", `{}`)
		err := h.Follow(c)
		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})
}

func TestDiscover(t *testing.T) {
	store := &mockUserStore{}
	h := NewHandler(store, nil, nil)

	c, rec := jsonContext(t, "user_a", `{"input":"ada"}`)
	require.NoError(t, h.Discover(c))

	assert.Equal(t, "ada", store.discovered)
	assert.Contains(t, rec.Body.String(), `"users"`)
}
