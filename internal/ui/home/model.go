package home

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tasktrack/internal/model"
	"github.com/nhle/tasktrack/internal/theme"
)

// Model is the landing screen shown on the role default paths (/home,
// /admin, /student).
type Model struct {
	title  string
	user   *model.User
	width  int
	height int
}

// New creates a new landing screen model.
func New(width, height int) Model {
	return Model{
		title:  "Home",
		width:  width,
		height: height,
	}
}

// SetUser records the logged-in profile for the greeting line.
func (m *Model) SetUser(u *model.User) {
	m.user = u
}

// SetTitle switches the screen heading ("Home", "Admin Dashboard", ...).
func (m *Model) SetTitle(title string) {
	m.title = title
}

// View renders the landing screen.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(theme.TitleStyle.Render(m.title))
	b.WriteString("\n")

	if m.user != nil {
		b.WriteString("Welcome back, " + m.user.Username + "!")
	} else {
		b.WriteString("Welcome back!")
	}
	b.WriteString("\n\n")

	b.WriteString(theme.HelpStyle.Render("1 projects | 2 notifications | ? help | L log out"))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
