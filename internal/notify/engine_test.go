package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tvnguyen/homeland/internal/model"
)

type fakeBackend struct {
	fakeFeed
	fakeMarker
}

func newTestEngine(t *testing.T, broker *testBroker, backend Backend) *Engine {
	t.Helper()

	engine := NewEngine(backend, Config{
		PushURL:    broker.url(),
		Topic:      "/topic/notifications",
		RetryDelay: 50 * time.Millisecond,
	}, testLogger())
	t.Cleanup(engine.Stop)
	return engine
}

func TestEngineSessionLifecycle(t *testing.T) {
	broker := newTestBroker(t)
	backend := &fakeBackend{
		fakeFeed: fakeFeed{items: []model.Notification{
			notif("n1", "from snapshot", false),
		}},
	}
	engine := newTestEngine(t, broker, backend)

	engine.Start("token-a")
	session := broker.awaitSession(t)

	require.Eventually(t, func() bool {
		_, ok := engine.currentStore().Get("n1")
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	session.push(t, `{"id":"n2","title":"from push"}`)
	require.Eventually(t, func() bool {
		return engine.UnreadCount() == 2
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, engine.MarkRead(context.Background(), "n1"))
	assert.Equal(t, 1, engine.UnreadCount())
	assert.Equal(t, []string{"n1"}, backend.marked)
}

func TestEngineStartIsolatesSessions(t *testing.T) {
	broker := newTestBroker(t)
	backend := &fakeBackend{
		fakeFeed: fakeFeed{items: []model.Notification{
			notif("old", "first identity", false),
		}},
	}
	engine := newTestEngine(t, broker, backend)

	engine.Start("token-a")
	broker.awaitSession(t)
	require.Eventually(t, func() bool {
		return len(engine.Notifications()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// A second identity gets a fresh store; nothing from the first session
	// is visible, even before its snapshot lands.
	backend.items = nil
	engine.Start("token-b")
	broker.awaitSession(t)

	assert.Empty(t, engine.Notifications())
	assert.Equal(t, 0, engine.UnreadCount())
}

func TestEngineStopIsIdempotent(t *testing.T) {
	broker := newTestBroker(t)
	engine := newTestEngine(t, broker, &fakeBackend{})

	// Stopping a never-started engine is a no-op.
	engine.Stop()

	engine.Start("token-a")
	broker.awaitSession(t)
	engine.Stop()
	engine.Stop()
}

func TestEngineStartWithoutTokenIsNoOp(t *testing.T) {
	broker := newTestBroker(t)
	backend := &fakeBackend{}
	engine := newTestEngine(t, broker, backend)

	engine.Start("")

	select {
	case <-broker.sessions:
		t.Fatal("unauthenticated engine must not open the push channel")
	case <-time.After(100 * time.Millisecond):
	}
	assert.Zero(t, backend.calls)
}

func TestEngineSubscribeSignalsOnChange(t *testing.T) {
	broker := newTestBroker(t)
	engine := newTestEngine(t, broker, &fakeBackend{})

	engine.Start("token-a")
	ch := engine.Subscribe()
	session := broker.awaitSession(t)
	session.push(t, `{"id":"n1","title":"ping"}`)

	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change signal after a push")
	}
}
