package notify

import (
	"sync"

	"github.com/tvnguyen/homeland/internal/model"
)

// viewState is the reducer's state: the ordered view plus the set of IDs
// that arrived over the push channel since the last snapshot. Provenance
// is what lets a snapshot be a true replace: live arrivals the snapshot
// hasn't caught up to survive it, anything else stale does not.
type viewState struct {
	items []model.Notification
	live  map[string]bool
}

// Store holds one session's ordered notification view (newest first) and
// signals subscribers after every mutation. It is owned exclusively by the
// engine's three components; consumers read snapshots and must not write.
type Store struct {
	mu          sync.Mutex
	state       viewState
	subscribers []chan struct{}
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{state: viewState{live: make(map[string]bool)}}
}

// apply is the pure reducer: it returns the next state for a prior state
// and one event, without mutating its input. ID-unique membership,
// monotonic read-state, and snapshot authority are all enforced here and
// nowhere else.
func apply(state viewState, event Event) viewState {
	switch ev := event.(type) {
	case SnapshotLoaded:
		// The snapshot is authoritative: it replaces the view wholesale.
		// The one exception is records that arrived over the push channel
		// and are not yet part of the returned snapshot; dropping those
		// would lose real deliveries to the fetch/push race, so they stay
		// ahead of the snapshot body in arrival order.
		inSnapshot := make(map[string]bool, len(ev.Items))
		for _, item := range ev.Items {
			inSnapshot[item.ID] = true
		}

		seen := make(map[string]bool, len(ev.Items))
		live := make(map[string]bool)
		next := make([]model.Notification, 0, len(ev.Items))

		for _, existing := range state.items {
			if !state.live[existing.ID] || inSnapshot[existing.ID] || seen[existing.ID] {
				continue
			}
			seen[existing.ID] = true
			live[existing.ID] = true
			next = append(next, existing)
		}

		for _, item := range ev.Items {
			if seen[item.ID] {
				continue
			}
			seen[item.ID] = true
			next = append(next, item)
		}

		return viewState{items: next, live: live}

	case PushArrived:
		// Reconnect replay can redeliver an ID already in view. The
		// first-seen record wins: membership, content, and read-state are
		// all preserved, so a locally-read record is never clobbered back
		// to unread.
		for _, existing := range state.items {
			if existing.ID == ev.Item.ID {
				return state
			}
		}

		next := make([]model.Notification, 0, len(state.items)+1)
		next = append(next, ev.Item)
		next = append(next, state.items...)

		live := make(map[string]bool, len(state.live)+1)
		for id := range state.live {
			live[id] = true
		}
		live[ev.Item.ID] = true

		return viewState{items: next, live: live}

	case MarkedRead:
		idx := -1
		for i, existing := range state.items {
			if existing.ID == ev.ID {
				idx = i
				break
			}
		}
		if idx < 0 || state.items[idx].Read {
			return state
		}

		next := make([]model.Notification, len(state.items))
		copy(next, state.items)
		next[idx].Read = true
		return viewState{items: next, live: state.live}
	}

	return state
}

// Apply runs the reducer against the current state and notifies
// subscribers if the view changed.
func (s *Store) Apply(event Event) {
	s.mu.Lock()
	prev := s.state
	s.state = apply(s.state, event)
	changed := !sameItems(prev.items, s.state.items)
	subscribers := s.subscribers
	s.mu.Unlock()

	if !changed {
		return
	}

	for _, ch := range subscribers {
		select {
		case ch <- struct{}{}:
		default:
			// Subscriber already has a pending signal; coalesce.
		}
	}
}

// sameItems reports whether two states are element-wise equal on the
// fields the reducer can change.
func sameItems(a, b []model.Notification) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Read != b[i].Read {
			return false
		}
	}
	return true
}

// Notifications returns a copy of the ordered view, newest first.
func (s *Store) Notifications() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Notification, len(s.state.items))
	copy(out, s.state.items)
	return out
}

// UnreadCount recomputes the number of unread records from the current
// state. It is derived on every call rather than tracked incrementally,
// so duplicate or missed transitions cannot skew it.
func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, item := range s.state.items {
		if !item.Read {
			count++
		}
	}
	return count
}

// Get returns the record with the given ID, if present.
func (s *Store) Get(id string) (model.Notification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.state.items {
		if item.ID == id {
			return item, true
		}
	}
	return model.Notification{}, false
}

// Subscribe registers a change signal channel with capacity one. Rapid
// back-to-back mutations coalesce into a single pending signal; consumers
// re-read the full snapshot on each signal.
func (s *Store) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)

	s.mu.Lock()
	s.subscribers = append(s.subscribers, ch)
	s.mu.Unlock()

	return ch
}
