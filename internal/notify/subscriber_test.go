package notify

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testBroker is a minimal in-process STOMP broker: it answers CONNECT
// with CONNECTED and hands each subscribed session to the test for
// pushing MESSAGE frames.
type testBroker struct {
	server   *httptest.Server
	sessions chan *brokerSession
}

type brokerSession struct {
	conn  *websocket.Conn
	wmu   sync.Mutex
	topic string
}

func newTestBroker(t *testing.T) *testBroker {
	t.Helper()

	b := &testBroker{sessions: make(chan *brokerSession, 4)}
	b.server = httptest.NewServer(http.HandlerFunc(b.handle))
	t.Cleanup(b.server.Close)
	return b
}

func (b *testBroker) url() string {
	return "ws" + strings.TrimPrefix(b.server.URL, "http")
}

func (b *testBroker) handle(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{Subprotocols: []string{"v12.stomp", "v11.stomp"}}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	session := &brokerSession{conn: conn}
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		f, err := parseFrame(data)
		if err != nil {
			continue
		}

		switch f.command {
		case stompConnect:
			connected := &frame{
				command: stompConnected,
				headers: map[string]string{"version": "1.2"},
			}
			if err := session.write(connected); err != nil {
				return
			}
		case stompSubscribe:
			session.topic = f.headers["destination"]
			b.sessions <- session
		case stompDisconnect:
			return
		}
	}
}

func (s *brokerSession) write(f *frame) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, f.marshal())
}

// push delivers one payload on the session's subscribed topic.
func (s *brokerSession) push(t *testing.T, body string) {
	t.Helper()

	msg := &frame{
		command: stompMessage,
		headers: map[string]string{
			"subscription": subscriptionID,
			"destination":  s.topic,
			"content-type": "application/json",
		},
		body: []byte(body),
	}
	require.NoError(t, s.write(msg))
}

func (s *brokerSession) drop() {
	_ = s.conn.Close()
}

func (b *testBroker) awaitSession(t *testing.T) *brokerSession {
	t.Helper()

	select {
	case s := <-b.sessions:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a subscription")
		return nil
	}
}

func startSubscriber(t *testing.T, broker *testBroker, store *Store) *Subscriber {
	t.Helper()

	sub := NewSubscriber(SubscriberConfig{
		URL:        broker.url(),
		Topic:      "/topic/notifications",
		RetryDelay: 50 * time.Millisecond,
	}, store, testLogger())
	sub.Start()
	t.Cleanup(sub.Close)
	return sub
}

func TestSubscriberDeliversPushes(t *testing.T) {
	broker := newTestBroker(t)
	store := NewStore()
	startSubscriber(t, broker, store)

	session := broker.awaitSession(t)
	assert.Equal(t, "/topic/notifications", session.topic)

	session.push(t, `{"id":"n1","title":"new listing","message":"a house"}`)
	session.push(t, `{"id":"n2","title":"price drop","read":true}`)

	require.Eventually(t, func() bool {
		return len(store.Notifications()) == 2
	}, 2*time.Second, 10*time.Millisecond)

	// Absent read field means unread; an explicit true is honored.
	assert.Equal(t, []string{"n2", "n1"}, ids(store.Notifications()))
	assert.Equal(t, 1, store.UnreadCount())
	n1, ok := store.Get("n1")
	require.True(t, ok)
	assert.Equal(t, "new listing", n1.Title)
	assert.False(t, n1.Read)
}

func TestSubscriberDropsMalformedPayloads(t *testing.T) {
	broker := newTestBroker(t)
	store := NewStore()
	startSubscriber(t, broker, store)

	session := broker.awaitSession(t)
	session.push(t, `{{{not json`)
	session.push(t, `{"title":"no id"}`)
	session.push(t, `{"id":"good","title":"valid"}`)

	require.Eventually(t, func() bool {
		_, ok := store.Get("good")
		return ok
	}, 2*time.Second, 10*time.Millisecond)
	assert.Len(t, store.Notifications(), 1)
}

func TestSubscriberReconnects(t *testing.T) {
	broker := newTestBroker(t)
	store := NewStore()
	startSubscriber(t, broker, store)

	first := broker.awaitSession(t)
	first.push(t, `{"id":"n1","title":"before drop"}`)
	require.Eventually(t, func() bool {
		_, ok := store.Get("n1")
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	first.drop()

	second := broker.awaitSession(t)
	second.push(t, `{"id":"n2","title":"after reconnect"}`)
	second.push(t, `{"id":"n1","title":"replayed"}`)

	require.Eventually(t, func() bool {
		_, ok := store.Get("n2")
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	// The replayed record did not duplicate or clobber the original.
	assert.Len(t, store.Notifications(), 2)
	n1, ok := store.Get("n1")
	require.True(t, ok)
	assert.Equal(t, "before drop", n1.Title)
}

func TestSubscriberCloseIsIdempotent(t *testing.T) {
	broker := newTestBroker(t)
	sub := startSubscriber(t, broker, NewStore())
	broker.awaitSession(t)

	sub.Close()
	sub.Close()
}

func TestSubscriberNoWritesAfterClose(t *testing.T) {
	broker := newTestBroker(t)
	store := NewStore()
	sub := startSubscriber(t, broker, store)
	broker.awaitSession(t)

	sub.Close()

	// A payload that resolves after teardown must not reach the store.
	sub.handleMessage([]byte(`{"id":"late","title":"too late"}`))
	assert.Empty(t, store.Notifications())
}

func TestSubscriberRetriesUnreachableBroker(t *testing.T) {
	broker := newTestBroker(t)
	broker.server.Close()

	store := NewStore()
	sub := NewSubscriber(SubscriberConfig{
		URL:        broker.url(),
		Topic:      "/topic/notifications",
		RetryDelay: 10 * time.Millisecond,
	}, store, testLogger())
	sub.Start()

	// The loop keeps retrying quietly; failures never reach the store and
	// Close still tears it down cleanly.
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, store.Notifications())
	sub.Close()
}
