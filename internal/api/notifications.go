package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/tvnguyen/homeland/internal/model"
)

// ListNotifications fetches every notification visible to the
// authenticated user, in the backend's order (newest first).
func (c *Client) ListNotifications(
	ctx context.Context,
) ([]model.Notification, error) {
	var notifications []model.Notification
	if err := c.get(ctx, "/api/notifications", &notifications); err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	return notifications, nil
}

// MarkNotificationRead marks a single notification as read on the backend.
// The ack body is empty; only the status code matters.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	path := "/api/notifications/" + url.PathEscape(id) + "/read"
	if err := c.post(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("marking notification %s read: %w", id, err)
	}
	return nil
}
