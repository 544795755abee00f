package live

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkup/internal/pubsub"
)

// fakeSubscriber hands the subscribed handler back to the test so deliveries
// can be driven synchronously.
type fakeSubscriber struct {
	mu      sync.Mutex
	topic   string
	handler pubsub.Handler
}

func (f *fakeSubscriber) Subscribe(ctx context.Context, topic string, handler pubsub.Handler) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.topic = topic
	f.handler = handler
	return nil
}

func (f *fakeSubscriber) Close() error { return nil }

func (f *fakeSubscriber) deliver(t *testing.T, msg Message) {
	t.Helper()
	payload, err := json.Marshal(msg)
	require.NoError(t, err)
	f.deliverRaw(t, payload)
}

func (f *fakeSubscriber) deliverRaw(t *testing.T, payload []byte) {
	t.Helper()
	f.mu.Lock()
	handler := f.handler
	f.mu.Unlock()
	require.NotNil(t, handler, "channel never subscribed")
	require.NoError(t, handler(context.Background(), pubsub.Message{Payload: payload}))
}

type sentEvent struct {
	event   string
	payload []byte
}

// fakeTransport records every event it is asked to send.
type fakeTransport struct {
	mu      sync.Mutex
	events  []sentEvent
	sendErr error
	closes  int
}

func (f *fakeTransport) Send(event string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.events = append(f.events, sentEvent{event: event, payload: payload})
	return nil
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closes++
	return nil
}

func (f *fakeTransport) sent() []sentEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sentEvent, len(f.events))
	copy(out, f.events)
	return out
}

func (f *fakeTransport) closeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closes
}

func newTestChannel(t *testing.T) (*Channel, *RouteCell, *fakeSubscriber, *fakeTransport) {
	t.Helper()
	route := NewRouteCell()
	sub := &fakeSubscriber{}
	ch := NewChannel("user_a", route, sub, time.Second)
	transport := &fakeTransport{}
	require.NoError(t, ch.Open(context.Background(), transport))
	return ch, route, sub, transport
}

func TestChannelMergesIntoOpenConversation(t *testing.T) {
	ch, route, sub, transport := newTestChannel(t)
	defer ch.Close()

	route.Set("user_b")
	sub.deliver(t, Message{ID: "message:1", FromUserID: "user_b", ToUserID: "user_a", Text: "hi"})

	events := transport.sent()
	require.Len(t, events, 1)
	assert.Equal(t, EventMerge, events[0].event)

	var msg Message
	require.NoError(t, json.Unmarshal(events[0].payload, &msg))
	assert.Equal(t, "message:1", msg.ID)
	assert.Equal(t, "hi", msg.Text)
}

func TestChannelNotifiesForOtherSenders(t *testing.T) {
	ch, route, sub, transport := newTestChannel(t)
	defer ch.Close()

	route.Set("user_b")
	sub.deliver(t, Message{FromUserID: "user_c", ToUserID: "user_a", Text: "hello there"})

	events := transport.sent()
	require.Len(t, events, 1)
	assert.Equal(t, EventNotify, events[0].event)

	var n Notification
	require.NoError(t, json.Unmarshal(events[0].payload, &n))
	assert.Equal(t, "user_c", n.FromUserID)
	assert.Equal(t, "hello there", n.Preview)
	assert.NotEmpty(t, n.ID)
}

func TestChannelNotifiesWhenNoConversationOpen(t *testing.T) {
	ch, _, sub, transport := newTestChannel(t)
	defer ch.Close()

	sub.deliver(t, Message{FromUserID: "user_b", ToUserID: "user_a", Text: "hi"})

	events := transport.sent()
	require.Len(t, events, 1)
	assert.Equal(t, EventNotify, events[0].event)
}

func TestChannelKeepsArrivalOrder(t *testing.T) {
	ch, _, sub, transport := newTestChannel(t)
	defer ch.Close()

	for _, from := range []string{"user_b", "user_c", "user_b"} {
		sub.deliver(t, Message{FromUserID: from, ToUserID: "user_a", Text: "x"})
	}

	events := transport.sent()
	require.Len(t, events, 3)
	var senders []string
	for _, e := range events {
		assert.Equal(t, EventNotify, e.event)
		var n Notification
		require.NoError(t, json.Unmarshal(e.payload, &n))
		senders = append(senders, n.FromUserID)
	}
	assert.Equal(t, []string{"user_b", "user_c", "user_b"}, senders)
}

func TestChannelRouteChangesBetweenDeliveries(t *testing.T) {
	ch, route, sub, transport := newTestChannel(t)
	defer ch.Close()

	sub.deliver(t, Message{FromUserID: "user_b", ToUserID: "user_a", Text: "1"})
	route.Set("user_b")
	sub.deliver(t, Message{FromUserID: "user_b", ToUserID: "user_a", Text: "2"})
	route.Clear()
	sub.deliver(t, Message{FromUserID: "user_b", ToUserID: "user_a", Text: "3"})

	events := transport.sent()
	require.Len(t, events, 3)
	assert.Equal(t, EventNotify, events[0].event)
	assert.Equal(t, EventMerge, events[1].event)
	assert.Equal(t, EventNotify, events[2].event)
}

func TestChannelOpenWhileOpenFails(t *testing.T) {
	ch, _, _, _ := newTestChannel(t)
	defer ch.Close()

	err := ch.Open(context.Background(), &fakeTransport{})
	assert.ErrorIs(t, err, ErrAlreadyOpen)
}

func TestChannelCloseIsIdempotent(t *testing.T) {
	ch, _, _, transport := newTestChannel(t)

	require.NoError(t, ch.Close())
	require.NoError(t, ch.Close())

	assert.Equal(t, StateClosed, ch.State())
	assert.Equal(t, 1, transport.closeCount())
}

func TestChannelDiscardsEventsAfterClose(t *testing.T) {
	ch, _, sub, transport := newTestChannel(t)

	require.NoError(t, ch.Close())
	sub.deliver(t, Message{FromUserID: "user_b", ToUserID: "user_a", Text: "late"})

	assert.Empty(t, transport.sent())
}

func TestChannelClosesOnTransportFailure(t *testing.T) {
	ch, _, sub, transport := newTestChannel(t)

	done := ch.Done()
	transport.mu.Lock()
	transport.sendErr = errors.New("broken pipe")
	transport.mu.Unlock()

	sub.deliver(t, Message{FromUserID: "user_b", ToUserID: "user_a", Text: "hi"})

	assert.Equal(t, StateClosed, ch.State())
	select {
	case <-done:
	default:
		t.Fatal("done channel not closed after transport failure")
	}
}

func TestChannelDropsMalformedPayloads(t *testing.T) {
	ch, _, sub, transport := newTestChannel(t)
	defer ch.Close()

	sub.deliverRaw(t, []byte("{not json"))
	sub.deliver(t, Message{FromUserID: "user_b", ToUserID: "user_a", Text: "still alive"})

	events := transport.sent()
	require.Len(t, events, 1)
	assert.Equal(t, EventNotify, events[0].event)
}

func TestChannelReopensAfterClose(t *testing.T) {
	ch, _, sub, _ := newTestChannel(t)
	require.NoError(t, ch.Close())

	second := &fakeTransport{}
	require.NoError(t, ch.Open(context.Background(), second))
	defer ch.Close()

	sub.deliver(t, Message{FromUserID: "user_b", ToUserID: "user_a", Text: "back"})
	assert.Len(t, second.sent(), 1)
}
