package notifications

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tasktrack/internal/notify"
	"github.com/nhle/tasktrack/internal/theme"
)

// Model is the notifications screen: the filtered, deadline-ordered list of
// upcoming reminders with urgency coloring. The root model owns the
// notifier and pushes each cycle's output in.
type Model struct {
	reminders   []notify.Reminder
	statusMsg   string
	sinkEnabled bool
	width       int
	height      int
}

// New creates a new notifications screen model.
func New(width, height int) Model {
	return Model{
		width:  width,
		height: height,
	}
}

// SetReminders replaces the displayed reminder list.
func (m *Model) SetReminders(reminders []notify.Reminder) {
	m.reminders = reminders
	m.statusMsg = ""
}

// SetStatus records a poll failure for display. The list keeps showing the
// last successful cycle's reminders.
func (m *Model) SetStatus(msg string) {
	m.statusMsg = msg
}

// SetSinkEnabled reflects whether desktop alerts are currently permitted.
func (m *Model) SetSinkEnabled(enabled bool) {
	m.sinkEnabled = enabled
}

// View renders the notifications screen.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(theme.TitleStyle.Render("Notifications"))
	b.WriteString("\n")

	if m.sinkEnabled {
		b.WriteString(theme.NoticeStyle.Render("Desktop alerts enabled"))
	} else {
		b.WriteString(theme.HelpStyle.Render("Desktop alerts off. Press a to enable."))
	}
	b.WriteString("\n\n")

	if m.statusMsg != "" {
		b.WriteString(theme.ErrorStyle.Render(m.statusMsg))
		b.WriteString("\n\n")
	}

	if len(m.reminders) == 0 {
		b.WriteString(theme.HelpStyle.Render("No upcoming deadlines"))
		return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
	}

	plural := "s"
	if len(m.reminders) == 1 {
		plural = ""
	}
	b.WriteString(theme.BannerStyle.Render(
		fmt.Sprintf("You have %d upcoming deadline%s!", len(m.reminders), plural),
	))
	b.WriteString("\n\n")

	for _, r := range m.reminders {
		b.WriteString(m.renderReminder(r))
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// renderReminder renders one project line with its urgency color.
func (m Model) renderReminder(r notify.Reminder) string {
	urgency := theme.UrgencyStyle(r.Urgency.String())

	line := fmt.Sprintf("%s  %s",
		r.Project.Title,
		urgency.Render(r.DueLabel()),
	)

	if desc := strings.TrimSpace(r.Project.Description); desc != "" {
		line += "\n  " + theme.HelpStyle.Render(desc)
	}

	return line
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
