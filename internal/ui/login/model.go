package login

import (
	"fmt"
	"regexp"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tasktrack/internal/theme"
)

// SubmittedMsg is dispatched when the user submits valid credentials.
// Field validation has already passed; the values never reach the API
// otherwise.
type SubmittedMsg struct {
	Email    string
	Password string
}

// AbortedMsg is dispatched when the user cancels the login form.
type AbortedMsg struct{}

// emailPattern is a shallow shape check; the server remains the authority.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	email    string
	password string
}

// Model is the Bubble Tea model for the login screen.
type Model struct {
	form       *huh.Form
	fb         *formBindings
	errMsg     string
	notice     string
	submitting bool
	width      int
	height     int
}

// New creates a new login screen model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start (re)builds the form and focuses it. The email field keeps its last
// value so a failed login does not force full re-entry.
func (m *Model) Start() tea.Cmd {
	m.fb.password = ""
	m.submitting = false
	m.form = m.buildForm()
	return m.form.Init()
}

// SetError shows an API failure above the form and re-enables it.
func (m *Model) SetError(msg string) tea.Cmd {
	m.errMsg = msg
	m.notice = ""
	return m.Start()
}

// SetNotice shows a transient confirmation (e.g. after signup).
func (m *Model) SetNotice(msg string) {
	m.notice = msg
	m.errMsg = ""
}

// Update handles messages for the login screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil || m.submitting {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.submitting = true
		m.errMsg = ""
		email := strings.TrimSpace(m.fb.email)
		password := m.fb.password
		return m, func() tea.Msg {
			return SubmittedMsg{Email: email, Password: password}
		}
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return AbortedMsg{} }
	}

	return m, cmd
}

// View renders the login screen.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(theme.TitleStyle.Render("Task Track: Log in"))
	b.WriteString("\n")

	if m.notice != "" {
		b.WriteString(theme.NoticeStyle.Render(m.notice))
		b.WriteString("\n\n")
	}
	if m.errMsg != "" {
		b.WriteString(theme.ErrorStyle.Render(m.errMsg))
		b.WriteString("\n\n")
	}

	if m.submitting {
		b.WriteString("Signing in...")
	} else if m.form != nil {
		b.WriteString(m.form.View())
	}

	b.WriteString("\n")
	b.WriteString(theme.HelpStyle.Render("No account? Press ctrl+s to sign up."))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&m.fb.email).
				Validate(validateEmail),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(validateRequired("Password")),
		),
	).WithWidth(formWidth(m.width)).WithShowHelp(false)
}

func validateEmail(s string) error {
	if !emailPattern.MatchString(strings.TrimSpace(s)) {
		return fmt.Errorf("enter a valid email address")
	}
	return nil
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

// formWidth clamps the form width to a readable column.
func formWidth(width int) int {
	w := width - 4
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return w
}
