package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/tvnguyen/homeland/internal/model"
)

// SearchProperties queries the listing search endpoint with the given
// criteria. Zero-valued criteria are omitted from the query string.
func (c *Client) SearchProperties(
	ctx context.Context,
	q model.PropertyQuery,
) ([]model.Property, error) {
	values := url.Values{}
	if q.Query != "" {
		values.Set("q", q.Query)
	}
	if q.LocationID != "" {
		values.Set("locationId", q.LocationID)
	}
	if q.Type != "" {
		values.Set("type", q.Type)
	}
	if q.MinPrice > 0 {
		values.Set("minPrice", strconv.FormatFloat(q.MinPrice, 'f', -1, 64))
	}
	if q.MaxPrice > 0 {
		values.Set("maxPrice", strconv.FormatFloat(q.MaxPrice, 'f', -1, 64))
	}
	if q.MinArea > 0 {
		values.Set("minArea", strconv.FormatFloat(q.MinArea, 'f', -1, 64))
	}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		values.Set("pageSize", strconv.Itoa(q.PageSize))
	}

	path := "/api/properties"
	if encoded := values.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var properties []model.Property
	if err := c.get(ctx, path, &properties); err != nil {
		return nil, fmt.Errorf("searching properties: %w", err)
	}
	return properties, nil
}

// GetProperty fetches a single listing by ID.
func (c *Client) GetProperty(
	ctx context.Context,
	id string,
) (*model.Property, error) {
	var property model.Property
	path := "/api/properties/" + url.PathEscape(id)
	if err := c.get(ctx, path, &property); err != nil {
		return nil, fmt.Errorf("fetching property %s: %w", id, err)
	}
	return &property, nil
}

// ListLocations fetches the location catalog used for search filters.
func (c *Client) ListLocations(ctx context.Context) ([]model.Location, error) {
	var locations []model.Location
	if err := c.get(ctx, "/api/locations", &locations); err != nil {
		return nil, fmt.Errorf("listing locations: %w", err)
	}
	return locations, nil
}

// ListFavorites fetches the user's favorited properties.
func (c *Client) ListFavorites(
	ctx context.Context,
	userID string,
) ([]model.Property, error) {
	var properties []model.Property
	path := "/api/favorites/" + url.PathEscape(userID)
	if err := c.get(ctx, path, &properties); err != nil {
		return nil, fmt.Errorf("listing favorites: %w", err)
	}
	return properties, nil
}

// AddFavorite bookmarks a property for the user.
func (c *Client) AddFavorite(ctx context.Context, userID, propertyID string) error {
	path := "/api/favorites/" + url.PathEscape(userID) +
		"/" + url.PathEscape(propertyID)
	if err := c.post(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("adding favorite %s: %w", propertyID, err)
	}
	return nil
}

// RemoveFavorite removes a property from the user's favorites.
func (c *Client) RemoveFavorite(ctx context.Context, userID, propertyID string) error {
	path := "/api/favorites/" + url.PathEscape(userID) +
		"/" + url.PathEscape(propertyID)
	if err := c.delete(ctx, path); err != nil {
		return fmt.Errorf("removing favorite %s: %w", propertyID, err)
	}
	return nil
}
