package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/tasktrack/internal/api"
	"github.com/nhle/tasktrack/internal/route"
	"github.com/nhle/tasktrack/internal/session"
)

// loginResultMsg carries the outcome of a login attempt.
type loginResultMsg struct {
	sess session.Session
	err  error
}

// signupResultMsg carries the outcome of a signup attempt.
type signupResultMsg struct {
	err error
}

// loginCmd exchanges credentials for a session off the UI goroutine.
func (m Model) loginCmd(email, password string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		sess, err := client.Login(context.Background(), email, password)
		return loginResultMsg{sess: sess, err: err}
	}
}

// signupCmd registers a new account off the UI goroutine.
func (m Model) signupCmd(username, email, password string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		err := client.Signup(context.Background(), username, email, password)
		return signupResultMsg{err: err}
	}
}

// handleLoginResult persists a fresh session and enters the dashboard, or
// re-arms the login form with the failure message.
func (m Model) handleLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, m.loginView.SetError(api.UserMessage(msg.err))
	}

	if err := m.sessions.Set(msg.sess); err != nil {
		return m, m.loginView.SetError("Could not store your session: " + err.Error())
	}

	startCmd := m.startNotifier()
	return m, tea.Batch(startCmd, navigateTo(route.Root))
}

// handleSignupResult lands back on login with a confirmation, or re-arms
// the signup form with the failure message.
func (m Model) handleSignupResult(msg signupResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, m.signupView.SetError(api.UserMessage(msg.err))
	}

	m.loginView.SetNotice("Account created. Please log in.")
	return m, navigateTo(route.Login)
}
