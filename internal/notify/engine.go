package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tvnguyen/homeland/internal/model"
)

// Backend is the full remote surface the engine needs. *api.Client
// satisfies it.
type Backend interface {
	Feed
	ReadMarker
}

// Config holds the engine's push channel settings, normally taken from
// model.PushConfig.
type Config struct {
	PushURL    string
	Topic      string
	RetryDelay time.Duration
}

// ConfigFromPush converts the application's push configuration.
func ConfigFromPush(p model.PushConfig) Config {
	return Config{
		PushURL:    p.URL,
		Topic:      p.Topic,
		RetryDelay: time.Duration(p.ReconnectDelaySec) * time.Second,
	}
}

// Engine owns one session's notification state: the store, the snapshot
// loader, the push subscriber, and the read-state synchronizer. Start
// binds it to a credential; Stop tears everything down. Consumers read
// the store surface (Notifications, UnreadCount, Subscribe) and mark
// reads through MarkRead; nothing else may mutate the view.
type Engine struct {
	backend Backend
	cfg     Config
	log     *slog.Logger

	mu         sync.Mutex
	store      *Store
	loader     *Loader
	syncer     *Synchronizer
	subscriber *Subscriber
	cancelLoad context.CancelFunc
	running    bool
}

// NewEngine creates a stopped engine. Start must be called with a
// credential before the store surface carries data.
func NewEngine(backend Backend, cfg Config, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	e := &Engine{
		backend: backend,
		cfg:     cfg,
		log:     log,
	}
	// An empty store so consumers can subscribe before the first Start.
	e.store = NewStore()
	e.syncer = NewSynchronizer(backend, e.store)
	return e
}

// Start binds the engine to a session credential. A fresh store is
// created per session, so a re-login as a different identity can never
// see the previous identity's records. Starting a running engine stops
// the previous session first.
func (e *Engine) Start(token string) {
	if token == "" {
		return
	}

	e.Stop()

	e.mu.Lock()
	store := NewStore()
	e.store = store
	e.syncer = NewSynchronizer(e.backend, store)
	e.loader = NewLoader(e.backend, e.log)

	loadCtx, cancel := context.WithCancel(context.Background())
	e.cancelLoad = cancel

	e.subscriber = NewSubscriber(SubscriberConfig{
		URL:        e.cfg.PushURL,
		Topic:      e.cfg.Topic,
		RetryDelay: e.cfg.RetryDelay,
	}, store, e.log)

	loader := e.loader
	subscriber := e.subscriber
	e.running = true
	e.mu.Unlock()

	// The snapshot load and the push channel proceed independently; a
	// failed load leaves the channel running and vice versa.
	go func() {
		_ = loader.Load(loadCtx, store, token, false)
	}()
	subscriber.Start()
}

// Stop tears the session down: the push channel is deactivated exactly
// once and any in-flight snapshot fetch is prevented from writing.
// Repeated calls are no-ops.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	cancel := e.cancelLoad
	subscriber := e.subscriber
	e.cancelLoad = nil
	e.subscriber = nil
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if subscriber != nil {
		subscriber.Close()
	}
}

// Refresh re-runs the authoritative snapshot load for the current
// session. Safe to call any time; a failure leaves the view as it was.
func (e *Engine) Refresh(ctx context.Context, token string) error {
	e.mu.Lock()
	loader := e.loader
	store := e.store
	e.mu.Unlock()

	if loader == nil {
		return nil
	}
	return loader.Load(ctx, store, token, true)
}

// MarkRead marks one notification as read, server first.
func (e *Engine) MarkRead(ctx context.Context, id string) error {
	e.mu.Lock()
	syncer := e.syncer
	e.mu.Unlock()
	return syncer.MarkRead(ctx, id)
}

// Notifications returns the current ordered view, newest first.
func (e *Engine) Notifications() []model.Notification {
	return e.currentStore().Notifications()
}

// UnreadCount returns the derived unread count.
func (e *Engine) UnreadCount() int {
	return e.currentStore().UnreadCount()
}

// Subscribe returns a change signal channel for the current session's
// store. Channels from a previous session go quiet after Start creates a
// fresh store; consumers should re-subscribe on login.
func (e *Engine) Subscribe() <-chan struct{} {
	return e.currentStore().Subscribe()
}

func (e *Engine) currentStore() *Store {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store
}
