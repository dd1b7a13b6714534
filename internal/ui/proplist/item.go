package proplist

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tvnguyen/homeland/internal/model"
	"github.com/tvnguyen/homeland/internal/theme"
)

// PropertyItem wraps a model.Property so it can be used in a bubbles/list.
type PropertyItem struct {
	Property model.Property
	Favorite bool
}

// FilterValue returns the string used for fuzzy filtering.
func (i PropertyItem) FilterValue() string { return i.Property.Title }

// Title returns the listing title for the list.
func (i PropertyItem) Title() string { return i.Property.Title }

// Description returns a short summary line for the list.
func (i PropertyItem) Description() string {
	parts := []string{
		i.Property.Type,
		FormatPrice(i.Property.Price),
		i.Property.Address,
	}
	return strings.Join(parts, " | ")
}

// ItemDelegate implements list.ItemDelegate for rendering listing rows.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single listing line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	pi, ok := item.(PropertyItem)
	if !ok {
		return
	}

	p := pi.Property
	isSelected := index == m.Index()

	typeBadge := theme.TypeStyle(p.Type).Render(strings.ToUpper(shortType(p.Type)))
	statusBadge := theme.StatusStyle(p.Status).Render(p.Status)
	price := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorGreen).
		Render(FormatPrice(p.Price))
	area := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(fmt.Sprintf("%.0fm²", p.Area))

	favMark := " "
	if pi.Favorite {
		favMark = lipgloss.NewStyle().Foreground(theme.ColorYellow).Render("★")
	}

	line := fmt.Sprintf(
		"%s %s %s %s  %s %s",
		favMark, typeBadge, statusBadge, p.Title, price, area,
	)

	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// shortType truncates the type label to a three-letter badge.
func shortType(t string) string {
	if len(t) <= 3 {
		return t
	}
	return t[:3]
}

// FormatPrice renders a VND amount the way local listings quote it:
// billions as "tỷ", millions as "triệu".
func FormatPrice(price float64) string {
	switch {
	case price >= 1_000_000_000:
		return fmt.Sprintf("%.1f tỷ", price/1_000_000_000)
	case price >= 1_000_000:
		return fmt.Sprintf("%.0f triệu", price/1_000_000)
	default:
		return fmt.Sprintf("%.0f₫", price)
	}
}
