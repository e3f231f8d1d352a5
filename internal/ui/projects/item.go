package projects

import (
	"strings"
	"time"

	"github.com/nhle/tasktrack/internal/model"
	"github.com/nhle/tasktrack/internal/theme"
)

// projectItem wraps a model.Project so it can be used in a bubbles/list.
type projectItem struct {
	project model.Project
}

// FilterValue returns the string used for fuzzy filtering.
func (i projectItem) FilterValue() string { return i.project.Title }

// Title returns the project title, struck through when completed.
func (i projectItem) Title() string {
	if i.project.IsCompleted {
		return theme.CompletedStyle.Render(i.project.Title)
	}
	return i.project.Title
}

// Description returns a one-line summary: description, deadline, flags.
func (i projectItem) Description() string {
	parts := []string{}

	if desc := strings.TrimSpace(i.project.Description); desc != "" {
		parts = append(parts, desc)
	}

	if i.project.HasDeadline() {
		parts = append(parts, "due "+i.project.Deadline.Format("2006-01-02 15:04"))
	}

	if i.project.NotificationsEnabled {
		parts = append(parts, "reminders on")
	}

	if i.project.IsCompleted {
		parts = append(parts, "completed")
	} else if i.project.HasDeadline() && i.project.Deadline.Before(time.Now()) {
		parts = append(parts, theme.ErrorStyle.Render("overdue"))
	}

	if len(parts) == 0 {
		return "—"
	}
	return strings.Join(parts, " | ")
}
