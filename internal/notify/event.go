package notify

import "github.com/tvnguyen/homeland/internal/model"

// Event is a single mutation applied to the notification store. All store
// writes flow through the reducer as one of the three event kinds, which
// keeps the merge/de-dup/read-state policy in one testable place.
type Event interface {
	isEvent()
}

// SnapshotLoaded carries the authoritative feed returned by the backend,
// in server order (newest first). Applying it replaces the view wholesale,
// except that live-arrived records missing from the snapshot are retained.
type SnapshotLoaded struct {
	Items []model.Notification
}

// PushArrived carries a single notification delivered over the push
// channel. Applying it prepends the record unless its ID is already
// present, in which case the event is a no-op.
type PushArrived struct {
	Item model.Notification
}

// MarkedRead flips a single record's read flag to true, in place. Unknown
// IDs and already-read records are no-ops.
type MarkedRead struct {
	ID string
}

func (SnapshotLoaded) isEvent() {}
func (PushArrived) isEvent()    {}
func (MarkedRead) isEvent()     {}
