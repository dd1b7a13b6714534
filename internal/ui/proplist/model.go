package proplist

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tvnguyen/homeland/internal/api"
	"github.com/tvnguyen/homeland/internal/keys"
	"github.com/tvnguyen/homeland/internal/model"
	"github.com/tvnguyen/homeland/internal/store"
	"github.com/tvnguyen/homeland/internal/theme"
)

// searchTimeout bounds a single listing search round-trip.
const searchTimeout = 15 * time.Second

// PropertiesLoadedMsg is sent when a search finishes.
type PropertiesLoadedMsg struct {
	Properties []model.Property
	Favorites  map[string]bool
	Err        error
}

// SelectedPropertyMsg is sent when the user opens a listing.
type SelectedPropertyMsg struct {
	PropertyID string
}

// FavoriteToggledMsg is sent after a favorite is saved or removed.
type FavoriteToggledMsg struct {
	PropertyID string
	Favorite   bool
	Err        error
}

// FavoritesLoadedMsg is sent when the favorites view finishes loading.
type FavoritesLoadedMsg struct {
	Properties []model.Property
	Err        error
}

// SearchSavedMsg reports the outcome of storing the current query.
type SearchSavedMsg struct {
	Name string
	Err  error
}

// SavedSearchesMsg carries the stored searches for cycling.
type SavedSearchesMsg struct {
	Searches []model.SavedSearch
	Err      error
}

// Model is the property browser view.
type Model struct {
	list        list.Model
	client      *api.Client
	cache       store.Store
	keys        *keys.KeyMap
	query       model.PropertyQuery
	favorites   map[string]bool
	searchMode  bool
	favView     bool
	saved       []model.SavedSearch
	savedIdx    int
	searchInput textinput.Model
	userID      string
	width       int
	height      int
}

// New creates a new property browser.
func New(client *api.Client, cache store.Store, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Listings"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search listings..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		client:      client,
		cache:       cache,
		keys:        k,
		favorites:   make(map[string]bool),
		searchInput: si,
		query:       model.PropertyQuery{PageSize: 50},
		width:       width,
		height:      height,
	}
}

// SetUserID records whose favorites are synced on toggle.
func (m *Model) SetUserID(id string) {
	m.userID = id
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}

// Init returns a command that runs the initial (unfiltered) search.
func (m Model) Init() tea.Cmd {
	return m.Search()
}

// Search returns a command fetching listings for the current query and
// the local favorites cache in one pass.
func (m Model) Search() tea.Cmd {
	query := m.query
	client := m.client
	cache := m.cache
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
		defer cancel()

		properties, err := client.SearchProperties(ctx, query)
		if err != nil {
			return PropertiesLoadedMsg{Err: err}
		}

		favorites := make(map[string]bool)
		if cached, favErr := cache.GetFavorites(ctx); favErr == nil {
			for _, f := range cached {
				favorites[f.PropertyID] = true
			}
		}

		return PropertiesLoadedMsg{Properties: properties, Favorites: favorites}
	}
}

// Update handles messages for the property browser.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case PropertiesLoadedMsg:
		if msg.Err != nil {
			m.list.NewStatusMessage(theme.ErrStyle.Render(msg.Err.Error()))
			return m, nil
		}
		m.favorites = msg.Favorites
		items := make([]list.Item, len(msg.Properties))
		for i, p := range msg.Properties {
			items[i] = PropertyItem{Property: p, Favorite: m.favorites[p.ID]}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case FavoritesLoadedMsg:
		if msg.Err != nil {
			m.list.NewStatusMessage(theme.ErrStyle.Render(msg.Err.Error()))
			return m, nil
		}
		items := make([]list.Item, len(msg.Properties))
		for i, p := range msg.Properties {
			m.favorites[p.ID] = true
			items[i] = PropertyItem{Property: p, Favorite: true}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case SearchSavedMsg:
		if msg.Err != nil {
			m.list.NewStatusMessage(theme.ErrStyle.Render(msg.Err.Error()))
			return m, nil
		}
		m.saved = nil
		m.list.NewStatusMessage("saved search " + msg.Name)
		return m, nil

	case SavedSearchesMsg:
		return m.applyNextSavedSearch(msg)

	case FavoriteToggledMsg:
		if msg.Err != nil {
			m.list.NewStatusMessage(theme.ErrStyle.Render(msg.Err.Error()))
			return m, nil
		}
		m.favorites[msg.PropertyID] = msg.Favorite
		items := m.list.Items()
		for i, item := range items {
			if pi, ok := item.(PropertyItem); ok && pi.Property.ID == msg.PropertyID {
				pi.Favorite = msg.Favorite
				items[i] = pi
			}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.query.Query = m.searchInput.Value()
		m.searchInput.Blur()
		return m, m.Search()
	case "esc":
		m.searchMode = false
		m.searchInput.SetValue("")
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input in browse mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Select):
		if pi, ok := m.list.SelectedItem().(PropertyItem); ok {
			id := pi.Property.ID
			return m, func() tea.Msg {
				return SelectedPropertyMsg{PropertyID: id}
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleFavorite):
		if pi, ok := m.list.SelectedItem().(PropertyItem); ok {
			return m, m.toggleFavorite(pi)
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.favView {
			return m, m.loadFavorites()
		}
		return m, m.Search()

	case key.Matches(msg, m.keys.Favorites):
		m.favView = !m.favView
		if m.favView {
			m.list.Title = "Favorites"
			return m, m.loadFavorites()
		}
		m.list.Title = "Listings"
		return m, m.Search()

	case key.Matches(msg, m.keys.SaveSearch):
		return m, m.saveCurrentSearch()

	case key.Matches(msg, m.keys.CycleSearch):
		if len(m.saved) > 0 {
			return m.applyNextSavedSearch(SavedSearchesMsg{Searches: m.saved})
		}
		return m, m.loadSavedSearches()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// toggleFavorite flips a listing's favorite state on the backend and in
// the local cache.
func (m Model) toggleFavorite(pi PropertyItem) tea.Cmd {
	client := m.client
	cache := m.cache
	userID := m.userID
	p := pi.Property
	making := !pi.Favorite

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
		defer cancel()

		var err error
		if making {
			err = client.AddFavorite(ctx, userID, p.ID)
			if err == nil {
				err = cache.SaveFavorite(ctx, model.Favorite{
					PropertyID: p.ID,
					Title:      p.Title,
					Price:      p.Price,
					Address:    p.Address,
				})
			}
		} else {
			err = client.RemoveFavorite(ctx, userID, p.ID)
			if err == nil {
				err = cache.RemoveFavorite(ctx, p.ID)
			}
		}

		return FavoriteToggledMsg{PropertyID: p.ID, Favorite: making, Err: err}
	}
}

// applyNextSavedSearch runs the next stored query in rotation and drops
// back to the listing view.
func (m Model) applyNextSavedSearch(msg SavedSearchesMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		m.list.NewStatusMessage(theme.ErrStyle.Render(msg.Err.Error()))
		return m, nil
	}
	if len(msg.Searches) == 0 {
		m.list.NewStatusMessage("no saved searches")
		return m, nil
	}

	m.saved = msg.Searches
	if m.savedIdx >= len(m.saved) {
		m.savedIdx = 0
	}
	s := m.saved[m.savedIdx]
	m.savedIdx++

	m.favView = false
	m.list.Title = "Listings"
	m.query = model.PropertyQuery{
		Query:      s.Query,
		LocationID: s.LocationID,
		Type:       s.Type,
		MinPrice:   s.MinPrice,
		MaxPrice:   s.MaxPrice,
		PageSize:   m.query.PageSize,
	}
	m.searchInput.SetValue(s.Query)
	m.list.NewStatusMessage("applied " + s.Name)
	return m, m.Search()
}

// loadFavorites fetches the user's favorites and resyncs the local cache.
// When the backend is unreachable the cached copies render instead, so the
// screen still works offline.
func (m Model) loadFavorites() tea.Cmd {
	client := m.client
	cache := m.cache
	userID := m.userID

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
		defer cancel()

		properties, err := client.ListFavorites(ctx, userID)
		if err != nil {
			cached, cacheErr := cache.GetFavorites(ctx)
			if cacheErr != nil || len(cached) == 0 {
				return FavoritesLoadedMsg{Err: err}
			}
			properties = make([]model.Property, len(cached))
			for i, f := range cached {
				properties[i] = model.Property{
					ID:      f.PropertyID,
					Title:   f.Title,
					Price:   f.Price,
					Address: f.Address,
				}
			}
			return FavoritesLoadedMsg{Properties: properties}
		}

		favs := make([]model.Favorite, len(properties))
		for i, p := range properties {
			favs[i] = model.Favorite{
				PropertyID: p.ID,
				Title:      p.Title,
				Price:      p.Price,
				Address:    p.Address,
			}
		}
		// Cache resync is best effort; the fetched list renders either way.
		_ = cache.ReplaceFavorites(ctx, favs)

		return FavoritesLoadedMsg{Properties: properties}
	}
}

// saveCurrentSearch stores the active query under a name derived from it.
func (m Model) saveCurrentSearch() tea.Cmd {
	cache := m.cache
	q := m.query

	return func() tea.Msg {
		name := q.Query
		if name == "" {
			name = "all listings"
		}

		ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
		defer cancel()

		err := cache.CreateSavedSearch(ctx, model.SavedSearch{
			Name:       name,
			Query:      q.Query,
			LocationID: q.LocationID,
			Type:       q.Type,
			MinPrice:   q.MinPrice,
			MaxPrice:   q.MaxPrice,
		})
		return SearchSavedMsg{Name: name, Err: err}
	}
}

// loadSavedSearches reads the stored queries for cycling.
func (m Model) loadSavedSearches() tea.Cmd {
	cache := m.cache

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
		defer cancel()

		searches, err := cache.GetSavedSearches(ctx)
		return SavedSearchesMsg{Searches: searches, Err: err}
	}
}

// SearchMode reports whether the search input currently has focus.
func (m Model) SearchMode() bool {
	return m.searchMode
}

// View renders the property browser.
func (m Model) View() string {
	if m.searchMode {
		return m.searchInput.View() + "\n" + m.list.View()
	}
	return m.list.View()
}
