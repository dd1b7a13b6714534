package app

import (
	"context"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tvnguyen/homeland/internal/api"
	"github.com/tvnguyen/homeland/internal/credential"
	"github.com/tvnguyen/homeland/internal/keys"
	"github.com/tvnguyen/homeland/internal/model"
	"github.com/tvnguyen/homeland/internal/notify"
	"github.com/tvnguyen/homeland/internal/store"
	"github.com/tvnguyen/homeland/internal/theme"
	"github.com/tvnguyen/homeland/internal/ui"
	"github.com/tvnguyen/homeland/internal/ui/login"
	"github.com/tvnguyen/homeland/internal/ui/notifpanel"
	"github.com/tvnguyen/homeland/internal/ui/propdetail"
	"github.com/tvnguyen/homeland/internal/ui/proplist"
)

// authTimeout bounds login and register round-trips.
const authTimeout = 15 * time.Second

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewLogin ViewState = iota
	ViewBrowse
	ViewDetail
	ViewNotifications
)

// loginResultMsg carries the outcome of a login attempt.
type loginResultMsg struct {
	result *api.LoginResult
	err    error
}

// registerResultMsg carries the outcome of a registration attempt.
type registerResultMsg struct {
	email    string
	password string
	err      error
}

// notifChangedMsg signals that the notification store mutated; views
// re-read the engine's surface. The channel rides along so the next wait
// reuses the same subscription.
type notifChangedMsg struct {
	ch <-chan struct{}
}

// Model is the root Bubble Tea model that manages view routing, the
// session lifecycle, and the notification engine.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap

	client *api.Client
	cache  store.Store
	engine *notify.Engine

	loginView  login.Model
	browser    proplist.Model
	detail     propdetail.Model
	notifPanel notifpanel.Model

	user        model.User
	token       string
	unreadCount int
	ready       bool
}

// New creates the root application model. A non-empty initialToken (a
// still-valid stored credential) skips the login screen.
func New(
	client *api.Client,
	cache store.Store,
	engine *notify.Engine,
	initialToken string,
) Model {
	k := keys.DefaultKeyMap()

	m := Model{
		currentView: ViewLogin,
		keys:        k,
		client:      client,
		cache:       cache,
		engine:      engine,
		loginView:   login.New(80, 24),
		browser:     proplist.New(client, cache, k, 80, 24),
		detail:      propdetail.New(client, 80, 24),
		notifPanel:  notifpanel.New(engine, k, 80, 24),
		token:       initialToken,
	}

	if initialToken != "" {
		m.currentView = ViewBrowse
	}
	return m
}

// Init starts the active view and, for a restored session, the engine.
func (m Model) Init() tea.Cmd {
	if m.token != "" {
		m.client.SetToken(m.token)
		m.engine.Start(m.token)
		return tea.Batch(
			m.browser.Init(),
			m.waitForNotifChange(m.engine.Subscribe()),
			m.loadProfile(),
		)
	}
	return m.loginView.Init()
}

// waitForNotifChange blocks on the store's change signal and resumes the
// Bubble Tea loop when the view needs re-reading.
func (m Model) waitForNotifChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return notifChangedMsg{ch: ch}
	}
}

// loadProfile fetches the signed-in user's profile for display and
// favorites sync.
func (m Model) loadProfile() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
		defer cancel()

		user, err := client.Me(ctx)
		if err != nil {
			return loginResultMsg{err: err}
		}
		return loginResultMsg{result: &api.LoginResult{
			Token: client.Token(),
			User:  *user,
		}}
	}
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.loginView.SetSize(contentWidth, contentHeight)
		m.browser.SetSize(contentWidth, contentHeight)
		m.detail.SetSize(contentWidth, contentHeight)
		m.notifPanel.SetSize(contentWidth, contentHeight)
		return m, nil

	case login.SubmittedMsg:
		return m, m.doLogin(msg.Email, msg.Password)

	case login.RegisterSubmittedMsg:
		return m, m.doRegister(msg)

	case registerResultMsg:
		if msg.err != nil {
			var cmd tea.Cmd
			m.loginView, cmd = m.loginView.Update(login.FailedMsg{Err: msg.err})
			return m, cmd
		}
		// Account created; sign straight in with the same credentials.
		return m, m.doLogin(msg.email, msg.password)

	case loginResultMsg:
		return m.handleLoginResult(msg)

	case notifChangedMsg:
		m.unreadCount = m.engine.UnreadCount()
		m.notifPanel.Reload()
		// Keep listening on the same subscription.
		return m, m.waitForNotifChange(msg.ch)

	case proplist.SelectedPropertyMsg:
		m.previousView = m.currentView
		m.currentView = ViewDetail
		return m, m.detail.Load(msg.PropertyID)

	case notifpanel.MarkedMsg:
		var cmd tea.Cmd
		m.notifPanel, cmd = m.notifPanel.Update(msg)
		if api.IsAuthError(msg.Err) {
			return m.logout()
		}
		// Navigation is not blocked on the mark-as-read outcome.
		if nav := m.navigateCmd(msg.Link); nav != nil {
			return m, tea.Batch(cmd, nav)
		}
		return m, cmd

	case tea.KeyMsg:
		if handled, model, cmd := m.handleGlobalKeys(msg); handled {
			return model, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKeys processes bindings that apply regardless of view.
// Returns handled=false when the active view should see the key instead.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	// The login form and the search input swallow everything.
	if m.currentView == ViewLogin {
		if msg.String() == "ctrl+c" {
			return true, m, m.quit()
		}
		return false, m, nil
	}
	if m.currentView == ViewBrowse && m.browser.SearchMode() {
		return false, m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return true, m, m.quit()

	case "n":
		if m.currentView != ViewNotifications {
			m.previousView = m.currentView
			m.currentView = ViewNotifications
			m.notifPanel.Reload()
		}
		return true, m, nil

	case "esc":
		if m.currentView == ViewDetail || m.currentView == ViewNotifications {
			m.currentView = m.previousView
			if m.currentView == ViewDetail {
				// Never stack detail on detail; fall back to browsing.
				m.currentView = ViewBrowse
			}
			return true, m, nil
		}
		return true, m, nil
	}

	return false, m, nil
}

// quit stops the engine before exiting so the push channel closes cleanly.
func (m Model) quit() tea.Cmd {
	m.engine.Stop()
	return tea.Quit
}

// doLogin exchanges credentials for a token off the UI loop.
func (m Model) doLogin(email, password string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
		defer cancel()

		result, err := client.Login(ctx, email, password)
		return loginResultMsg{result: result, err: err}
	}
}

// doRegister creates the account off the UI loop.
func (m Model) doRegister(msg login.RegisterSubmittedMsg) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
		defer cancel()

		err := client.Register(ctx, api.RegisterRequest{
			Email:     msg.Email,
			Password:  msg.Password,
			FirstName: msg.FirstName,
			LastName:  msg.LastName,
		})
		return registerResultMsg{email: msg.Email, password: msg.Password, err: err}
	}
}

// handleLoginResult installs the session or routes the failure back to
// the login form.
func (m Model) handleLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if api.IsAuthError(msg.err) && m.currentView != ViewLogin {
			// Restored token no longer valid.
			return m.logout()
		}
		var cmd tea.Cmd
		m.loginView, cmd = m.loginView.Update(login.FailedMsg{Err: msg.err})
		return m, cmd
	}

	freshSession := m.token != msg.result.Token
	m.user = msg.result.User
	m.token = msg.result.Token
	m.browser.SetUserID(m.user.ID)

	// Non-fatal: the session works, it just won't survive a restart.
	_ = credential.SaveToken(m.token)
	_ = credential.Set(credential.KeyAccountEmail, m.user.Email)

	if m.currentView == ViewLogin {
		m.currentView = ViewBrowse
	}

	if freshSession {
		m.engine.Start(m.token)
		return m, tea.Batch(
			m.browser.Init(),
			m.waitForNotifChange(m.engine.Subscribe()),
		)
	}
	return m, nil
}

// logout tears the session down and returns to the login screen.
func (m Model) logout() (tea.Model, tea.Cmd) {
	m.engine.Stop()
	m.client.SetToken("")
	m.token = ""
	m.user = model.User{}
	m.unreadCount = 0
	_ = credential.ClearToken()

	m.currentView = ViewLogin
	m.loginView = login.New(m.layout.ContentWidth(), m.layout.ContentHeight())
	return m, m.loginView.Init()
}

// navigateCmd turns a notification deep link into an in-app navigation.
// Links that don't target a listing are ignored.
func (m *Model) navigateCmd(link string) tea.Cmd {
	const prefix = "/properties/"
	if !strings.HasPrefix(link, prefix) {
		return nil
	}
	id := strings.TrimPrefix(link, prefix)
	if id == "" {
		return nil
	}

	m.previousView = ViewBrowse
	m.currentView = ViewDetail
	return m.detail.Load(id)
}

// updateActiveView forwards a message to whichever view is showing.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewLogin:
		m.loginView, cmd = m.loginView.Update(msg)
	case ViewBrowse:
		m.browser, cmd = m.browser.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewNotifications:
		m.notifPanel, cmd = m.notifPanel.Update(msg)
	}

	return m, cmd
}

// View renders the full application frame.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	if m.currentView == ViewLogin {
		return m.loginView.View()
	}

	var content string
	switch m.currentView {
	case ViewBrowse:
		content = m.browser.View()
	case ViewDetail:
		content = m.detail.View()
	case ViewNotifications:
		content = m.notifPanel.View()
	}

	status := m.user.DisplayName()
	if m.unreadCount > 0 {
		status = theme.UnreadBadgeStyle.Render("🔔 "+strconv.Itoa(m.unreadCount)) + " " + status
	}

	header := m.layout.RenderHeader("Homeland", status)
	statusBar := m.layout.RenderStatusBar(
		"/ search · s save · f favorites · tab saved · n notifications · q quit",
	)

	return m.layout.RenderWithFrame(header, content, statusBar)
}
