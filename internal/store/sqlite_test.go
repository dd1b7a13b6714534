package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tvnguyen/homeland/internal/model"
	"github.com/tvnguyen/homeland/tests/testutil"
)

func fav(id, title string, savedAt time.Time) model.Favorite {
	return model.Favorite{
		PropertyID: id,
		Title:      title,
		Price:      2500000000,
		Address:    "12 Nguyen Hue, District 1",
		SavedAt:    model.Timestamp{Time: savedAt},
	}
}

func TestFavoritesRoundTrip(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveFavorite(ctx, fav("p1", "Riverside apartment", base)))
	require.NoError(t, s.SaveFavorite(ctx, fav("p2", "Garden house", base.Add(time.Hour))))

	favs, err := s.GetFavorites(ctx)
	require.NoError(t, err)
	require.Len(t, favs, 2)
	assert.Equal(t, "p2", favs[0].PropertyID, "most recently saved first")
	assert.Equal(t, "Riverside apartment", favs[1].Title)

	ok, err := s.IsFavorite(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.IsFavorite(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaveFavoriteUpsertsByPropertyID(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveFavorite(ctx, fav("p1", "Old title", base)))
	require.NoError(t, s.SaveFavorite(ctx, fav("p1", "New title", base.Add(time.Hour))))

	favs, err := s.GetFavorites(ctx)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, "New title", favs[0].Title)
}

func TestSaveFavoriteRejectsEmptyID(t *testing.T) {
	s := testutil.NewTestStore(t)
	assert.Error(t, s.SaveFavorite(context.Background(), model.Favorite{Title: "no id"}))
}

func TestRemoveFavorite(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveFavorite(ctx, fav("p1", "Riverside apartment", time.Now().UTC())))
	require.NoError(t, s.RemoveFavorite(ctx, "p1"))
	assert.Error(t, s.RemoveFavorite(ctx, "p1"), "second removal reports not found")
}

func TestReplaceFavorites(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveFavorite(ctx, fav("stale", "No longer favorited", base)))

	require.NoError(t, s.ReplaceFavorites(ctx, []model.Favorite{
		fav("p1", "Riverside apartment", base),
		fav("p2", "Garden house", base.Add(time.Hour)),
	}))

	favs, err := s.GetFavorites(ctx)
	require.NoError(t, err)
	require.Len(t, favs, 2)
	for _, f := range favs {
		assert.NotEqual(t, "stale", f.PropertyID)
	}
}

func TestSavedSearchesRoundTrip(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateSavedSearch(ctx, model.SavedSearch{
		Name:     "District 1 apartments",
		Query:    "apartment",
		Type:     model.PropertyTypeApartment,
		MinPrice: 1000000000,
		MaxPrice: 3000000000,
	}))

	searches, err := s.GetSavedSearches(ctx)
	require.NoError(t, err)
	require.Len(t, searches, 1)
	assert.NotEmpty(t, searches[0].ID, "missing ID gets generated")
	assert.Equal(t, "District 1 apartments", searches[0].Name)

	require.NoError(t, s.DeleteSavedSearch(ctx, searches[0].ID))
	assert.Error(t, s.DeleteSavedSearch(ctx, searches[0].ID))

	searches, err = s.GetSavedSearches(ctx)
	require.NoError(t, err)
	assert.Empty(t, searches)
}

func TestCreateSavedSearchRejectsEmptyName(t *testing.T) {
	s := testutil.NewTestStore(t)
	assert.Error(t, s.CreateSavedSearch(context.Background(), model.SavedSearch{}))
}
