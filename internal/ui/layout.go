package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tasktrack/internal/theme"
)

// Layout manages the header/content/status-bar terminal layout dimensions.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the main content area.
func (l Layout) ContentHeight() int {
	return l.Height - l.HeaderHeight - l.StatusBarHeight
}

// RenderHeader renders the top bar with the app title on the left and a
// status summary on the right.
func (l Layout) RenderHeader(title string, status string) string {
	left := theme.HeaderStyle.Render(title)
	right := theme.HeaderStyle.Align(lipgloss.Right).Render(status)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		left,
		fill(l.Width-lipgloss.Width(left)-lipgloss.Width(right), theme.HeaderStyle),
		right,
	)
}

// RenderStatusBar renders the bottom bar with keyboard hints.
func (l Layout) RenderStatusBar(hints string) string {
	rendered := theme.StatusBarStyle.Render(hints)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		rendered,
		fill(l.Width-lipgloss.Width(rendered), theme.StatusBarStyle),
	)
}

// Frame vertically joins the header, content area, and status bar.
func (l Layout) Frame(header, content, statusBar string) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		content,
		statusBar,
	)
}

// fill renders a run of background-colored padding of the given width.
func fill(width int, style lipgloss.Style) string {
	if width <= 0 {
		return ""
	}
	return style.Render(strings.Repeat(" ", width))
}
