package signup

import (
	"fmt"
	"regexp"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tasktrack/internal/theme"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// minPasswordLength is enforced client-side before the request is sent.
const minPasswordLength = 8

// SubmittedMsg is dispatched when the user submits a valid registration.
type SubmittedMsg struct {
	Username string
	Email    string
	Password string
}

// CancelledMsg is dispatched when the user backs out of the signup form.
type CancelledMsg struct{}

type formBindings struct {
	username string
	email    string
	password string
	confirm  string
}

// Model is the Bubble Tea model for the signup screen.
type Model struct {
	form       *huh.Form
	fb         *formBindings
	errMsg     string
	submitting bool
	width      int
	height     int
}

// New creates a new signup screen model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start resets and focuses the form.
func (m *Model) Start() tea.Cmd {
	m.fb.password = ""
	m.fb.confirm = ""
	m.submitting = false
	m.form = m.buildForm()
	return m.form.Init()
}

// SetError shows an API failure above the form and re-enables it.
func (m *Model) SetError(msg string) tea.Cmd {
	m.errMsg = msg
	return m.Start()
}

// Update handles messages for the signup screen.
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
		username := strings.TrimSpace(m.fb.username)
		email := strings.TrimSpace(m.fb.email)
		password := m.fb.password
		return m, func() tea.Msg {
			return SubmittedMsg{Username: username, Email: email, Password: password}
		}
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelledMsg{} }
	}

	return m, cmd
}

// View renders the signup screen.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(theme.TitleStyle.Render("Task Track: Sign up"))
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString(theme.ErrorStyle.Render(m.errMsg))
		b.WriteString("\n\n")
	}

	if m.submitting {
		b.WriteString("Creating account...")
	} else if m.form != nil {
		b.WriteString(m.form.View())
	}

	b.WriteString("\n")
	b.WriteString(theme.HelpStyle.Render("esc returns to the login screen."))

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
				Title("Username").
				Value(&m.fb.username).
				Validate(validateRequired("Username")),
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&m.fb.email).
				Validate(validateEmail),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(validatePassword),
			huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.confirm).
				Validate(m.validateConfirm),
		),
	).WithWidth(signupFormWidth(m.width)).WithShowHelp(false)
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateEmail(s string) error {
	if !emailPattern.MatchString(strings.TrimSpace(s)) {
		return fmt.Errorf("enter a valid email address")
	}
	return nil
}

func validatePassword(s string) error {
	if len(s) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	return nil
}

func (m *Model) validateConfirm(s string) error {
	if s != m.fb.password {
		return fmt.Errorf("passwords do not match")
	}
	return nil
}

func signupFormWidth(width int) int {
	w := width - 4
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return w
}
