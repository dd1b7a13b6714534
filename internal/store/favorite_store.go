package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tvnguyen/homeland/internal/model"
)

// SaveFavorite inserts or refreshes a favorite by property ID.
func (s *SQLiteStore) SaveFavorite(ctx context.Context, fav model.Favorite) error {
	if strings.TrimSpace(fav.PropertyID) == "" {
		return fmt.Errorf("favorite property id must not be empty")
	}
	if fav.SavedAt.IsZero() {
		fav.SavedAt = model.Timestamp{Time: time.Now().UTC()}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO favorites (property_id, title, price, address, saved_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(property_id) DO UPDATE SET
			title = excluded.title,
			price = excluded.price,
			address = excluded.address`,
		fav.PropertyID, fav.Title, fav.Price, fav.Address, fav.SavedAt,
	)
	if err != nil {
		return fmt.Errorf("saving favorite %s: %w", fav.PropertyID, err)
	}
	return nil
}

// RemoveFavorite deletes a favorite by property ID.
func (s *SQLiteStore) RemoveFavorite(ctx context.Context, propertyID string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM favorites WHERE property_id = ?", propertyID)
	if err != nil {
		return fmt.Errorf("removing favorite %s: %w", propertyID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("favorite %s not found", propertyID)
	}
	return nil
}

// GetFavorites returns all cached favorites, most recently saved first.
func (s *SQLiteStore) GetFavorites(ctx context.Context) ([]model.Favorite, error) {
	var favs []model.Favorite
	err := s.db.SelectContext(ctx, &favs,
		"SELECT property_id, title, price, address, saved_at FROM favorites ORDER BY saved_at DESC")
	if err != nil {
		return nil, fmt.Errorf("getting favorites: %w", err)
	}
	return favs, nil
}

// IsFavorite reports whether the property is in the local favorites cache.
func (s *SQLiteStore) IsFavorite(ctx context.Context, propertyID string) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM favorites WHERE property_id = ?", propertyID)
	if err != nil {
		return false, fmt.Errorf("checking favorite %s: %w", propertyID, err)
	}
	return count > 0, nil
}

// ReplaceFavorites swaps the entire cache for the backend's list, used
// after a successful favorites fetch to resync local state.
func (s *SQLiteStore) ReplaceFavorites(ctx context.Context, favs []model.Favorite) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM favorites"); err != nil {
		return fmt.Errorf("clearing favorites: %w", err)
	}

	for _, fav := range favs {
		savedAt := fav.SavedAt
		if savedAt.IsZero() {
			savedAt = model.Timestamp{Time: time.Now().UTC()}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO favorites (property_id, title, price, address, saved_at)
			VALUES (?, ?, ?, ?, ?)`,
			fav.PropertyID, fav.Title, fav.Price, fav.Address, savedAt,
		)
		if err != nil {
			return fmt.Errorf("inserting favorite %s: %w", fav.PropertyID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing favorites replace: %w", err)
	}
	return nil
}
