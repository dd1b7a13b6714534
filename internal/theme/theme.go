package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// DetailPanelStyle wraps the detail view content area.
var DetailPanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// UnreadBadgeStyle renders the unread notification count in the header.
var UnreadBadgeStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorRed).
	Padding(0, 1)

// UnreadItemStyle highlights a notification that has not been read yet.
var UnreadItemStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite)

// ReadItemStyle dims an acknowledged notification.
var ReadItemStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// ErrStyle renders transient error notices.
var ErrStyle = lipgloss.NewStyle().
	Foreground(ColorRed)

// StatusStyle returns a color-coded style for a listing status.
func StatusStyle(status string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch status {
	case "available":
		return base.Foreground(ColorGreen)
	case "pending":
		return base.Foreground(ColorYellow)
	case "sold":
		return base.Foreground(ColorRed)
	default:
		return base.Foreground(ColorGray)
	}
}

// TypeStyle returns a color-coded style for a listing type label.
func TypeStyle(propertyType string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch propertyType {
	case "apartment":
		return base.Foreground(ColorBlue)
	case "house":
		return base.Foreground(ColorGreen)
	case "land":
		return base.Foreground(ColorOrange)
	case "office":
		return base.Foreground(ColorYellow)
	default:
		return base.Foreground(ColorGray)
	}
}
