package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/tvnguyen/homeland/internal/model"
)

// subscriptionID identifies this client's single topic subscription.
const subscriptionID = "sub-notifications"

// SubscriberConfig holds the push channel settings.
type SubscriberConfig struct {
	// URL is the websocket endpoint.
	URL string

	// Topic is the STOMP destination to subscribe to.
	Topic string

	// RetryDelay is the fixed wait between reconnect attempts.
	RetryDelay time.Duration
}

// Subscriber maintains the live push channel: it dials the websocket,
// subscribes to the notification topic, and merges every inbound payload
// into the store. A dropped connection is redialed after a fixed delay,
// indefinitely, until Close. Connection failures never surface to the UI;
// the view just goes stale until the channel comes back.
type Subscriber struct {
	cfg   SubscriberConfig
	store *Store
	log   *slog.Logger

	mu      sync.Mutex
	conn    *stompConn
	stopped bool

	stopCh    chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewSubscriber creates a subscriber feeding the given store.
func NewSubscriber(cfg SubscriberConfig, store *Store, log *slog.Logger) *Subscriber {
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 5 * time.Second
	}
	return &Subscriber{
		cfg:    cfg,
		store:  store,
		log:    log,
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start launches the connection loop in the background.
func (s *Subscriber) Start() {
	go s.run()
}

// Close tears the channel down exactly once. Safe to call repeatedly and
// concurrently with a connect attempt that is still in flight: a
// connection that completes after Close is closed instead of subscribed,
// and no payload received after Close mutates the store.
func (s *Subscriber) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.stopped = true
		conn := s.conn
		s.conn = nil
		s.mu.Unlock()

		close(s.stopCh)
		if conn != nil {
			conn.close()
		}
		<-s.done
	})
}

// run is the connect/subscribe/read loop.
func (s *Subscriber) run() {
	defer close(s.done)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-s.stopCh
		cancel()
	}()

	for {
		if s.isStopped() {
			return
		}

		conn, err := dialSTOMP(ctx, s.cfg.URL)
		if err != nil {
			s.log.Debug("push channel connect failed",
				"url", s.cfg.URL, "error", err)
			if !s.waitRetry() {
				return
			}
			continue
		}

		// The dial may have completed after Close was requested; hand the
		// connection straight back instead of subscribing a zombie.
		if !s.adopt(conn) {
			conn.close()
			return
		}

		if err := conn.subscribe(subscriptionID, s.cfg.Topic); err != nil {
			s.log.Debug("push channel subscribe failed",
				"topic", s.cfg.Topic, "error", err)
			s.release(conn)
			if !s.waitRetry() {
				return
			}
			continue
		}

		s.log.Info("push channel subscribed", "topic", s.cfg.Topic)
		s.readLoop(conn)
		s.release(conn)

		if !s.waitRetry() {
			return
		}
	}
}

// readLoop consumes MESSAGE frames until the connection dies or the
// subscriber is closed.
func (s *Subscriber) readLoop(conn *stompConn) {
	for {
		f, err := conn.next()
		if err != nil {
			if !s.isStopped() {
				s.log.Warn("push channel read failed", "error", err)
			}
			return
		}
		if f.command != stompMessage {
			continue
		}
		s.handleMessage(f.body)
	}
}

// pushPayload decodes the wire shape of a pushed notification. The read
// field is a pointer so an absent field is distinguishable from an
// explicit false.
type pushPayload struct {
	model.Notification
	Read *bool `json:"read"`
}

// handleMessage parses one inbound payload and merges it into the store.
// Malformed payloads are dropped with a warning; they never affect
// channel health.
func (s *Subscriber) handleMessage(body []byte) {
	var payload pushPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		s.log.Warn("dropping malformed push payload", "error", err)
		return
	}
	if payload.ID == "" {
		s.log.Warn("dropping push payload without id")
		return
	}

	item := payload.Notification
	// Push-originated records are unread by construction when the field
	// is absent.
	item.Read = payload.Read != nil && *payload.Read

	if s.isStopped() {
		return
	}
	s.store.Apply(PushArrived{Item: item})
}

// adopt records the active connection, unless the subscriber was closed
// while the dial was in flight.
func (s *Subscriber) adopt(conn *stompConn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}
	s.conn = conn
	return true
}

// release closes and forgets the active connection.
func (s *Subscriber) release(conn *stompConn) {
	s.mu.Lock()
	if s.conn == conn {
		s.conn = nil
	}
	s.mu.Unlock()
	conn.close()
}

func (s *Subscriber) isStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// waitRetry sleeps the fixed retry delay. It returns false when the
// subscriber was closed while waiting.
func (s *Subscriber) waitRetry() bool {
	select {
	case <-s.stopCh:
		return false
	case <-time.After(s.cfg.RetryDelay):
		return true
	}
}
