package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tvnguyen/homeland/internal/model"
)

type fakeFeed struct {
	items []model.Notification
	err   error
	calls int

	// beforeReturn runs inside ListNotifications, after the call is
	// counted. Lets tests cancel the context mid-fetch.
	beforeReturn func()
}

func (f *fakeFeed) ListNotifications(ctx context.Context) ([]model.Notification, error) {
	f.calls++
	if f.beforeReturn != nil {
		f.beforeReturn()
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoaderLoadsSnapshot(t *testing.T) {
	feed := &fakeFeed{items: []model.Notification{
		notif("n1", "first", false),
		notif("n2", "second", true),
	}}
	loader := NewLoader(feed, testLogger())
	store := NewStore()

	require.Equal(t, LoadUninitialized, loader.State())
	require.NoError(t, loader.Load(context.Background(), store, "token-a", false))

	assert.Equal(t, LoadReady, loader.State())
	assert.Equal(t, []string{"n1", "n2"}, ids(store.Notifications()))
	assert.Equal(t, 1, store.UnreadCount())
}

func TestLoaderSkipsWithoutToken(t *testing.T) {
	feed := &fakeFeed{}
	loader := NewLoader(feed, testLogger())

	require.NoError(t, loader.Load(context.Background(), NewStore(), "", false))
	assert.Zero(t, feed.calls)
	assert.Equal(t, LoadUninitialized, loader.State())
}

func TestLoaderLoadsOncePerToken(t *testing.T) {
	feed := &fakeFeed{items: []model.Notification{notif("n1", "first", false)}}
	loader := NewLoader(feed, testLogger())
	store := NewStore()

	require.NoError(t, loader.Load(context.Background(), store, "token-a", false))
	require.NoError(t, loader.Load(context.Background(), store, "token-a", false))
	assert.Equal(t, 1, feed.calls)

	// A different credential re-loads; force re-loads even for the same one.
	require.NoError(t, loader.Load(context.Background(), store, "token-b", false))
	assert.Equal(t, 2, feed.calls)
	require.NoError(t, loader.Load(context.Background(), store, "token-b", true))
	assert.Equal(t, 3, feed.calls)
}

func TestLoaderFailureLeavesStore(t *testing.T) {
	feed := &fakeFeed{err: errors.New("backend down")}
	loader := NewLoader(feed, testLogger())
	store := NewStore()
	store.Apply(PushArrived{Item: notif("live", "pushed", false)})

	err := loader.Load(context.Background(), store, "token-a", false)
	require.Error(t, err)
	assert.ErrorContains(t, err, "backend down")
	assert.Equal(t, LoadError, loader.State())
	assert.Equal(t, []string{"live"}, ids(store.Notifications()))

	// A later attempt against a recovered backend succeeds.
	feed.err = nil
	feed.items = []model.Notification{notif("n1", "first", false)}
	require.NoError(t, loader.Load(context.Background(), store, "token-a", false))
	assert.Equal(t, LoadReady, loader.State())
	assert.Equal(t, []string{"live", "n1"}, ids(store.Notifications()))
}

func TestLoaderCancelledFetchDoesNotWrite(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	feed := &fakeFeed{
		items:        []model.Notification{notif("n1", "first", false)},
		beforeReturn: cancel,
	}
	loader := NewLoader(feed, testLogger())
	store := NewStore()

	err := loader.Load(ctx, store, "token-a", false)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, store.Notifications())
}
