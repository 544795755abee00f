package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, subject string, method jwt.SigningMethod, key any) string {
	t.Helper()
	token := jwt.NewWithClaims(method, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	raw, err := token.SignedString(key)
	require.NoError(t, err)
	return raw
}

func TestAuthenticatorVerify(t *testing.T) {
	auth, err := NewAuthenticator(testSecret, "")
	require.NoError(t, err)

	t.Run("accepts a valid token", func(t *testing.T) {
		raw := signedToken(t, "user_123", jwt.SigningMethodHS256, []byte(testSecret))
		subject, err := auth.Verify(raw)
		require.NoError(t, err)
		assert.Equal(t, "user_123", subject)
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		raw := signedToken(t, "user_123", jwt.SigningMethodHS256, []byte("wrong"))
		_, err := auth.Verify(raw)
		assert.Error(t, err)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "user_123",
			"exp": time.Now().Add(-time.Hour).Unix(),
		})
		raw, err := token.SignedString([]byte(testSecret))
		require.NoError(t, err)
		_, err = auth.Verify(raw)
		assert.Error(t, err)
	})

	t.Run("rejects a token without a subject", func(t *testing.T) {
		raw := signedToken(t, "", jwt.SigningMethodHS256, []byte(testSecret))
		_, err := auth.Verify(raw)
		assert.Error(t, err)
	})
}

func TestNewAuthenticatorRequiresCredentials(t *testing.T) {
	_, err := NewAuthenticator("", "")
	assert.Error(t, err)
}

func TestRequireBearer(t *testing.T) {
	auth, err := NewAuthenticator(testSecret, "")
	require.NoError(t, err)

	e := echo.New()
	handler := auth.RequireBearer()(func(c echo.Context) error {
		return c.String(http.StatusOK, UserID(c))
	})

	t.Run("passes through with a valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+signedToken(t, "user_123", jwt.SigningMethodHS256, []byte(testSecret)))
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, handler(c))
		assert.Equal(t, "user_123", rec.Body.String())
	})

	t.Run("rejects a missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())

		err := handler(c)
		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})

	t.Run("rejects a garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer not.a.jwt")
		c := e.NewContext(req, httptest.NewRecorder())

		err := handler(c)
		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})
}
