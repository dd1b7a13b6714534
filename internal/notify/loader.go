package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tvnguyen/homeland/internal/model"
)

// LoadState tracks where the snapshot loader is in its lifecycle.
type LoadState int

const (
	LoadUninitialized LoadState = iota
	LoadLoading
	LoadReady
	LoadError
)

func (s LoadState) String() string {
	switch s {
	case LoadUninitialized:
		return "uninitialized"
	case LoadLoading:
		return "loading"
	case LoadReady:
		return "ready"
	case LoadError:
		return "error"
	default:
		return "unknown"
	}
}

// Feed is the backend surface the loader needs: the full notification
// list visible to the credential's owner.
type Feed interface {
	ListNotifications(ctx context.Context) ([]model.Notification, error)
}

// Loader populates the store from the backend's authoritative feed. A load
// runs once per distinct credential; a changed credential re-runs it so a
// re-login never shows the previous identity's feed. Failed loads leave
// the store untouched.
type Loader struct {
	feed Feed
	log  *slog.Logger

	mu        sync.Mutex
	state     LoadState
	lastToken string
}

// NewLoader creates a loader over the given feed.
func NewLoader(feed Feed, log *slog.Logger) *Loader {
	return &Loader{
		feed:  feed,
		log:   log,
		state: LoadUninitialized,
	}
}

// State returns the loader's current lifecycle state.
func (l *Loader) State() LoadState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Load fetches the snapshot and applies it to the store as a wholesale
// replace. It is a no-op when token is empty (unauthenticated) and when
// the same token has already been loaded successfully; pass force=true to
// resync anyway. A load that completes after ctx is cancelled does not
// touch the store.
func (l *Loader) Load(ctx context.Context, store *Store, token string, force bool) error {
	if token == "" {
		return nil
	}

	l.mu.Lock()
	if !force && l.state == LoadReady && l.lastToken == token {
		l.mu.Unlock()
		return nil
	}
	l.state = LoadLoading
	l.mu.Unlock()

	items, err := l.feed.ListNotifications(ctx)
	if err != nil {
		l.mu.Lock()
		l.state = LoadError
		l.mu.Unlock()

		l.log.Warn("notification snapshot load failed", "error", err)
		return fmt.Errorf("loading notification snapshot: %w", err)
	}

	// The session may have been torn down while the fetch was in flight;
	// a resolved-after-teardown fetch must not write.
	if ctx.Err() != nil {
		l.mu.Lock()
		l.state = LoadError
		l.mu.Unlock()
		return ctx.Err()
	}

	store.Apply(SnapshotLoaded{Items: items})

	l.mu.Lock()
	l.state = LoadReady
	l.lastToken = token
	l.mu.Unlock()

	l.log.Debug("notification snapshot loaded", "count", len(items))
	return nil
}
