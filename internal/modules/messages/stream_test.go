package messages

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkup/internal/live"
	"linkup/internal/middleware"
	"linkup/internal/pubsub"
)

type testValidator struct{ v *validator.Validate }

func (t *testValidator) Validate(i any) error { return t.v.Struct(i) }

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{v: validator.New()}
	return e
}

type stubSubscriber struct{}

func (s *stubSubscriber) Subscribe(ctx context.Context, topic string, handler pubsub.Handler) error {
	return nil
}

func (s *stubSubscriber) Close() error { return nil }

type recordingTransport struct {
	mu     sync.Mutex
	events []string
	data   [][]byte
}

func (r *recordingTransport) Send(event string, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	r.data = append(r.data, payload)
	return nil
}

func (r *recordingTransport) Close() error { return nil }

func (r *recordingTransport) sent() ([]string, [][]byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...), append([][]byte(nil), r.data...)
}

func TestServeRegistersSessionAndSendsHello(t *testing.T) {
	manager := live.NewManager()
	h := NewStreamHandler(manager, &stubSubscriber{}, time.Second)

	transport := &recordingTransport{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, h.serve(ctx, "user_a", transport))
	}()

	require.Eventually(t, func() bool {
		return manager.Count("user_a") == 1
	}, time.Second, 10*time.Millisecond, "session never registered")

	events, data := transport.sent()
	require.NotEmpty(t, events)
	assert.Equal(t, live.EventHello, events[0])

	var hello struct {
		ClientID string `json:"client_id"`
	}
	require.NoError(t, json.Unmarshal(data[0], &hello))
	assert.NotEmpty(t, hello.ClientID)

	// The hello client id addresses this session's route cell.
	assert.True(t, manager.SetRoute("user_a", hello.ClientID, "user_b"))

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("serve did not return after context cancellation")
	}
	assert.Equal(t, 0, manager.Count("user_a"))
}

func routeRequestContext(t *testing.T, e *echo.Echo, userID, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPut, "/api/live/route", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.UserIDContextKey, userID)
	return c, rec
}

func TestRouteEndpoint(t *testing.T) {
	e := newTestEcho()
	manager := live.NewManager()
	h := NewStreamHandler(manager, &stubSubscriber{}, time.Second)

	route := live.NewRouteCell()
	manager.Add(&live.Session{ClientID: "tab1", UserID: "user_a", Route: route})

	t.Run("sets the open conversation", func(t *testing.T) {
		c, rec := routeRequestContext(t, e, "user_a", `{"client_id":"tab1","peer_user_id":"user_b"}`)
		require.NoError(t, h.Route(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user_b", route.Current())
	})

	t.Run("clears it when peer is empty", func(t *testing.T) {
		c, rec := routeRequestContext(t, e, "user_a", `{"client_id":"tab1","peer_user_id":""}`)
		require.NoError(t, h.Route(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, route.Current())
	})

	t.Run("404s for unknown client ids", func(t *testing.T) {
		c, _ := routeRequestContext(t, e, "user_a", `{"client_id":"gone","peer_user_id":"user_b"}`)
		err := h.Route(c)
		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusNotFound, httpErr.Code)
	})

	t.Run("rejects a missing client id", func(t *testing.T) {
		c, _ := routeRequestContext(t, e, "user_a", `{"peer_user_id":"user_b"}`)
		err := h.Route(c)
		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})
}
