package notifpanel

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tvnguyen/homeland/internal/keys"
	"github.com/tvnguyen/homeland/internal/model"
	"github.com/tvnguyen/homeland/internal/notify"
	"github.com/tvnguyen/homeland/internal/theme"
)

// markTimeout bounds a single mark-as-read round-trip.
const markTimeout = 10 * time.Second

// MarkedMsg reports the outcome of a mark-as-read attempt. Link carries
// the activated notification's deep-link target; it is set regardless of
// the call's outcome because navigation is not blocked on it.
type MarkedMsg struct {
	ID   string
	Link string
	Err  error
}

// Model is the notification panel. It renders the engine's store surface
// and never mutates it directly: every read-mark goes through the
// engine's synchronizer.
type Model struct {
	engine *notify.Engine
	keys   *keys.KeyMap
	items  []model.Notification
	cursor int
	errMsg string
	width  int
	height int
}

// New creates the notification panel over the given engine.
func New(engine *notify.Engine, k *keys.KeyMap, width, height int) Model {
	return Model{
		engine: engine,
		keys:   k,
		width:  width,
		height: height,
	}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Reload snapshots the engine's current view into the panel.
func (m *Model) Reload() {
	m.items = m.engine.Notifications()
	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Update handles messages for the notification panel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MarkedMsg:
		if msg.Err != nil {
			m.errMsg = "mark as read failed: " + msg.Err.Error()
		} else {
			m.errMsg = ""
		}
		m.Reload()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, m.keys.Select):
			if m.cursor < len(m.items) {
				return m, m.activate(m.items[m.cursor])
			}
			return m, nil
		}
	}

	return m, nil
}

// activate marks the notification read on the backend. The deep link is
// carried on the result either way so the app can navigate without
// waiting on the ack.
func (m Model) activate(n model.Notification) tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), markTimeout)
		defer cancel()

		err := engine.MarkRead(ctx, n.ID)
		return MarkedMsg{ID: n.ID, Link: n.Link, Err: err}
	}
}

// View renders the notification panel.
func (m Model) View() string {
	var b strings.Builder

	title := fmt.Sprintf("Notifications (%d unread)", m.engine.UnreadCount())
	b.WriteString(theme.HeaderStyle.Render(title))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(theme.HelpStyle.Render("nothing here yet"))
		return lipgloss.NewStyle().Padding(0, 1).Render(b.String())
	}

	visible := m.height - 5
	if visible < 1 {
		visible = 1
	}
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := start + visible
	if end > len(m.items) {
		end = len(m.items)
	}

	for i := start; i < end; i++ {
		n := m.items[i]

		marker := "●"
		style := theme.UnreadItemStyle
		if n.Read {
			marker = " "
			style = theme.ReadItemStyle
		}

		when := ""
		if !n.CreatedAt.IsZero() {
			when = n.CreatedAt.Format("Jan 02 15:04")
		}

		line := fmt.Sprintf("%s %s · %s", marker, n.Title, n.Message)
		if when != "" {
			line += "  " + theme.HelpStyle.Render(when)
		}
		line = style.Render(line)

		if i == m.cursor {
			line = theme.SelectedItemStyle.Render(line)
		} else {
			line = theme.ListItemStyle.Render(line)
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(theme.ErrStyle.Render(m.errMsg))
	}

	b.WriteString("\n")
	b.WriteString(theme.HelpStyle.Render("enter open · esc back"))

	return lipgloss.NewStyle().Padding(0, 1).Render(b.String())
}
