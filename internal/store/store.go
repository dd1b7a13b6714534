package store

import (
	"context"

	"github.com/tvnguyen/homeland/internal/model"
)

// Store defines the local cache interface for favorites and saved
// searches. Both survive restarts so the corresponding screens render
// before (or without) a backend round-trip.
type Store interface {
	// === Favorites ===

	SaveFavorite(ctx context.Context, fav model.Favorite) error
	RemoveFavorite(ctx context.Context, propertyID string) error
	GetFavorites(ctx context.Context) ([]model.Favorite, error)
	IsFavorite(ctx context.Context, propertyID string) (bool, error)
	ReplaceFavorites(ctx context.Context, favs []model.Favorite) error

	// === Saved searches ===

	CreateSavedSearch(ctx context.Context, s model.SavedSearch) error
	DeleteSavedSearch(ctx context.Context, id string) error
	GetSavedSearches(ctx context.Context) ([]model.SavedSearch, error)
}
