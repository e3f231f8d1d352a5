package projectform

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tasktrack/internal/api"
	"github.com/nhle/tasktrack/internal/model"
	"github.com/nhle/tasktrack/internal/theme"
)

// deadlineInputFormats are accepted in the deadline field.
var deadlineInputFormats = []string{
	"2006-01-02 15:04",
	"2006-01-02",
}

// CreatedMsg is dispatched when the form submits a new project.
type CreatedMsg struct {
	Fields api.ProjectFields
}

// UpdatedMsg is dispatched when the form submits changes to a project.
type UpdatedMsg struct {
	ID     int
	Fields api.ProjectFields
}

// CancelMsg is dispatched when the user cancels the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title         string
	description   string
	deadline      string
	notifications bool
	completed     bool
}

// Model is the Bubble Tea model for the project create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	editMode bool
	editID   int
	width    int
	height   int
}

// New creates a new project form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// StartCreate initializes the form for a new project.
func (m *Model) StartCreate() tea.Cmd {
	m.editMode = false
	m.editID = 0
	m.fb.title = ""
	m.fb.description = ""
	m.fb.deadline = ""
	m.fb.notifications = true
	m.fb.completed = false
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form with an existing project's fields.
func (m *Model) StartEdit(p model.Project) tea.Cmd {
	m.editMode = true
	m.editID = p.ID
	m.fb.title = p.Title
	m.fb.description = p.Description
	if p.HasDeadline() {
		m.fb.deadline = p.Deadline.Format("2006-01-02 15:04")
	} else {
		m.fb.deadline = ""
	}
	m.fb.notifications = p.NotificationsEnabled
	m.fb.completed = p.IsCompleted
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the project form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the project form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Project"
	if m.editMode {
		titleText = "Edit Project"
	}

	content := theme.TitleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Title").
			Placeholder("What is this project?").
			Value(&m.fb.title).
			Validate(validateTitle),
		huh.NewText().
			Title("Description").
			Placeholder("Optional details...").
			Value(&m.fb.description),
		huh.NewInput().
			Title("Deadline").
			Placeholder("YYYY-MM-DD [HH:MM] (optional)").
			Value(&m.fb.deadline).
			Validate(validateOptionalDeadline),
		huh.NewConfirm().
			Title("Deadline reminders").
			Affirmative("On").
			Negative("Off").
			Value(&m.fb.notifications),
	}

	if m.editMode {
		fields = append(fields,
			huh.NewConfirm().
				Title("Completed").
				Affirmative("Yes").
				Negative("No").
				Value(&m.fb.completed),
		)
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	fields := api.ProjectFields{
		Title:                strings.TrimSpace(m.fb.title),
		Description:          strings.TrimSpace(m.fb.description),
		NotificationsEnabled: m.fb.notifications,
		IsCompleted:          m.fb.completed,
	}

	if deadline, ok := parseDeadline(m.fb.deadline); ok {
		fields.Deadline = model.NewTimestamp(deadline)
	}

	if m.editMode {
		id := m.editID
		return func() tea.Msg { return UpdatedMsg{ID: id, Fields: fields} }
	}
	return func() tea.Msg { return CreatedMsg{Fields: fields} }
}

// parseDeadline parses the optional deadline field. Validation has already
// guaranteed the value is empty or well-formed.
func parseDeadline(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, format := range deadlineInputFormats {
		if t, err := time.ParseInLocation(format, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func validateTitle(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("Title is required")
	}
	return nil
}

func validateOptionalDeadline(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, ok := parseDeadline(s); !ok {
		return fmt.Errorf("invalid deadline, use YYYY-MM-DD or YYYY-MM-DD HH:MM")
	}
	return nil
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}
