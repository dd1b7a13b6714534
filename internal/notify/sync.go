package notify

import (
	"context"
	"fmt"
)

// ReadMarker is the backend surface of the read-state synchronizer.
type ReadMarker interface {
	MarkNotificationRead(ctx context.Context, id string) error
}

// Synchronizer reconciles a notification's read flag with the server.
// The server is confirmed first; the local flag flips only after the call
// succeeds, so the view never shows a read state the backend disagrees
// with.
type Synchronizer struct {
	marker ReadMarker
	store  *Store
}

// NewSynchronizer creates a synchronizer writing through to the store.
func NewSynchronizer(marker ReadMarker, store *Store) *Synchronizer {
	return &Synchronizer{marker: marker, store: store}
}

// MarkRead marks the notification as read on the backend, then in the
// local store. Calling it on an already-read ID is safe; the local flag
// never toggles back. On failure the local record is left unchanged and
// the error is returned for the caller to surface.
func (s *Synchronizer) MarkRead(ctx context.Context, id string) error {
	if err := s.marker.MarkNotificationRead(ctx, id); err != nil {
		return fmt.Errorf("syncing read state for %s: %w", id, err)
	}

	s.store.Apply(MarkedRead{ID: id})
	return nil
}
