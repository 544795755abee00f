package middleware

import (
	"crypto/rsa"
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

// UserIDContextKey is where the authenticated user's external id is stored
// on the echo context.
const UserIDContextKey = "user_id"

// SessionName is the cookie session used to authenticate the SSE stream,
// since EventSource requests cannot carry an Authorization header.
const SessionName = "linkup_session"

const sessionUserKey = "user_id"

// Authenticator validates identity-provider bearer tokens. Verification is
// RS256 against a configured public key when one is set, otherwise HS256
// against a shared secret (development setups).
type Authenticator struct {
	secret    []byte
	publicKey *rsa.PublicKey
}

// NewAuthenticator builds an Authenticator from the configured credentials.
// publicKeyPEM takes precedence over secret when both are set.
func NewAuthenticator(secret, publicKeyPEM string) (*Authenticator, error) {
	a := &Authenticator{}
	if publicKeyPEM != "" {
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(publicKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("failed to parse auth public key: %w", err)
		}
		a.publicKey = key
		return a, nil
	}
	if secret == "" {
		return nil, fmt.Errorf("neither AUTH_JWT_PUBLIC_KEY nor AUTH_JWT_SECRET is set")
	}
	a.secret = []byte(secret)
	return a, nil
}

// Verify parses and validates a raw token, returning the subject (the
// identity provider's user id).
func (a *Authenticator) Verify(rawToken string) (string, error) {
	keyFunc := func(t *jwt.Token) (any, error) {
		if a.publicKey != nil {
			if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
			}
			return a.publicKey, nil
		}
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return a.secret, nil
	}

	token, err := jwt.Parse(rawToken, keyFunc)
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return subject, nil
}

// RequireBearer protects JSON API routes. It expects an
// "Authorization: Bearer <jwt>" header and stores the verified user id on
// the context.
func (a *Authenticator) RequireBearer() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			const prefix = "Bearer "
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			userID, err := a.Verify(header[len(prefix):])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid bearer token")
			}

			c.Set(UserIDContextKey, userID)
			return next(c)
		}
	}
}

// RequireSession protects the live stream routes using the cookie session
// issued by the token-exchange endpoint.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := session.Get(SessionName, c)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "no session")
			}
			userID, ok := sess.Values[sessionUserKey].(string)
			if !ok || userID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "not signed in")
			}
			c.Set(UserIDContextKey, userID)
			return next(c)
		}
	}
}

// IssueSession stores the user id in the cookie session, making the SSE
// stream reachable for this browser.
func IssueSession(c echo.Context, userID string) error {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}
	sess.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
	}
	sess.Values[sessionUserKey] = userID
	return sess.Save(c.Request(), c.Response())
}

// UserID returns the authenticated user id set by one of the auth
// middlewares, or "".
func UserID(c echo.Context) string {
	id, _ := c.Get(UserIDContextKey).(string)
	return id
}
