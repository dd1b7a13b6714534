package propdetail

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tvnguyen/homeland/internal/api"
	"github.com/tvnguyen/homeland/internal/model"
	"github.com/tvnguyen/homeland/internal/theme"
	"github.com/tvnguyen/homeland/internal/ui/proplist"
)

// fetchTimeout bounds a single detail fetch.
const fetchTimeout = 15 * time.Second

// LoadedMsg carries the fetched listing (or the failure) into the view.
type LoadedMsg struct {
	Property *model.Property
	Err      error
}

// Model is the listing detail view.
type Model struct {
	client   *api.Client
	property *model.Property
	loading  bool
	spinner  spinner.Model
	errMsg   string
	width    int
	height   int
}

// New creates an empty detail view.
func New(client *api.Client, width, height int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		client:  client,
		spinner: sp,
		width:   width,
		height:  height,
	}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Load returns a command that fetches the listing by ID.
func (m *Model) Load(id string) tea.Cmd {
	m.loading = true
	m.errMsg = ""
	m.property = nil
	client := m.client

	fetch := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		property, err := client.GetProperty(ctx, id)
		return LoadedMsg{Property: property, Err: err}
	}
	return tea.Batch(m.spinner.Tick, fetch)
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.errMsg = msg.Err.Error()
			return m, nil
		}
		m.property = msg.Property
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the listing detail panel.
func (m Model) View() string {
	if m.loading {
		return m.spinner.View() + " loading listing..."
	}
	if m.errMsg != "" {
		return theme.ErrStyle.Render(m.errMsg)
	}
	if m.property == nil {
		return theme.HelpStyle.Render("no listing selected")
	}

	p := m.property
	label := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorGray)

	var b strings.Builder
	b.WriteString(theme.HeaderStyle.Render(p.Title))
	b.WriteString("\n\n")
	b.WriteString(theme.TypeStyle(p.Type).Render(strings.ToUpper(p.Type)))
	b.WriteString(" ")
	b.WriteString(theme.StatusStyle(p.Status).Render(p.Status))
	b.WriteString("\n\n")

	b.WriteString(label.Render("Price    "))
	b.WriteString(proplist.FormatPrice(p.Price))
	b.WriteString("\n")
	b.WriteString(label.Render("Area     "))
	b.WriteString(fmt.Sprintf("%.0fm²", p.Area))
	b.WriteString("\n")
	b.WriteString(label.Render("Address  "))
	b.WriteString(p.Address)
	b.WriteString("\n")
	if p.Location.Name != "" {
		b.WriteString(label.Render("District "))
		b.WriteString(p.Location.Name)
		if p.Location.City != "" {
			b.WriteString(", " + p.Location.City)
		}
		b.WriteString("\n")
	}
	if p.AgentName != "" {
		b.WriteString(label.Render("Agent    "))
		b.WriteString(p.AgentName)
		b.WriteString("\n")
	}
	if !p.CreatedAt.IsZero() {
		b.WriteString(label.Render("Listed   "))
		b.WriteString(p.CreatedAt.Format("Jan 02, 2006"))
		b.WriteString("\n")
	}

	if p.Description != "" {
		b.WriteString("\n")
		b.WriteString(p.Description)
		b.WriteString("\n")
	}

	panel := theme.DetailPanelStyle.Width(m.width - 4)
	return panel.Render(b.String())
}
