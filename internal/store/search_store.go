package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tvnguyen/homeland/internal/model"
)

// CreateSavedSearch inserts a new saved search. Generates a UUID if ID is
// empty.
func (s *SQLiteStore) CreateSavedSearch(ctx context.Context, search model.SavedSearch) error {
	if strings.TrimSpace(search.Name) == "" {
		return fmt.Errorf("saved search name must not be empty")
	}
	if search.ID == "" {
		search.ID = uuid.New().String()
	}
	if search.CreatedAt.IsZero() {
		search.CreatedAt = model.Timestamp{Time: time.Now().UTC()}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO saved_searches (
			id, name, query, location_id, type, min_price, max_price, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		search.ID, search.Name, search.Query, search.LocationID,
		search.Type, search.MinPrice, search.MaxPrice, search.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating saved search: %w", err)
	}
	return nil
}

// DeleteSavedSearch removes a saved search by ID.
func (s *SQLiteStore) DeleteSavedSearch(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM saved_searches WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting saved search %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("saved search %s not found", id)
	}
	return nil
}

// GetSavedSearches returns all saved searches, newest first.
func (s *SQLiteStore) GetSavedSearches(ctx context.Context) ([]model.SavedSearch, error) {
	var searches []model.SavedSearch
	err := s.db.SelectContext(ctx, &searches, `
		SELECT id, name, query, location_id, type, min_price, max_price, created_at
		FROM saved_searches ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("getting saved searches: %w", err)
	}
	return searches, nil
}
