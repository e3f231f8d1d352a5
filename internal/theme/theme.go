package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for the top application bar.
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

// TitleStyle is used for screen titles inside the content area.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	MarginBottom(1)

// ErrorStyle renders failure messages.
var ErrorStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed)

// NoticeStyle renders transient confirmations (e.g. signup success).
var NoticeStyle = lipgloss.NewStyle().
	Foreground(ColorGreen)

// BannerStyle wraps the upcoming-deadline count banner.
var BannerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorYellow).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorYellow).
	Padding(0, 1)

// HelpStyle is used for keyboard shortcut hints.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// SelectedItemStyle highlights the focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// CompletedStyle dims completed projects in the dashboard.
var CompletedStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Strikethrough(true)

// UrgencyStyle returns a color-coded style for an urgency bucket name
// ("urgent", "soon", "later").
func UrgencyStyle(urgency string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch urgency {
	case "urgent":
		return base.Foreground(ColorRed)
	case "soon":
		return base.Foreground(ColorYellow)
	default:
		return base.Foreground(ColorBlue)
	}
}
