package model

// Notification is a single alert addressed to the signed-in user. It is
// observed either in the initial feed snapshot or as a live push delivery
// over the websocket channel.
type Notification struct {
	// ID is the backend-assigned identifier, unique within a session's view.
	ID string `json:"id"`

	// Title is the short human-readable label.
	Title string `json:"title"`

	// Message is the body text.
	Message string `json:"message"`

	// Link is an optional deep-link target opened when the item is activated.
	Link string `json:"link,omitempty"`

	// Sender names the user or system component that produced the
	// notification. Display only; no referential logic hangs off it.
	Sender string `json:"sender,omitempty"`

	// Read reports whether the user has acknowledged the notification.
	// The only field that mutates after creation, and only false -> true.
	Read bool `json:"read"`

	// CreatedAt is when the notification was created server-side.
	// Used for display formatting only; feed order is positional.
	CreatedAt Timestamp `json:"createdAt"`
}
