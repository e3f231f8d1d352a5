// Package app is the root Bubble Tea model: it owns the session store, the
// API client, and the deadline notifier, and routes between screens by way
// of the access guard.
package app

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/tasktrack/internal/api"
	"github.com/nhle/tasktrack/internal/keys"
	"github.com/nhle/tasktrack/internal/model"
	"github.com/nhle/tasktrack/internal/notify"
	"github.com/nhle/tasktrack/internal/route"
	"github.com/nhle/tasktrack/internal/session"
	"github.com/nhle/tasktrack/internal/ui"
	"github.com/nhle/tasktrack/internal/ui/helpview"
	"github.com/nhle/tasktrack/internal/ui/home"
	"github.com/nhle/tasktrack/internal/ui/login"
	"github.com/nhle/tasktrack/internal/ui/notifications"
	"github.com/nhle/tasktrack/internal/ui/projectform"
	"github.com/nhle/tasktrack/internal/ui/projects"
	"github.com/nhle/tasktrack/internal/ui/signup"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewLogin ViewState = iota
	ViewSignup
	ViewProjects
	ViewProjectCreate
	ViewProjectEdit
	ViewNotifications
	ViewHome
	ViewHelp
)

// navigateMsg requests a guarded route transition.
type navigateMsg struct {
	target route.Route
}

// navigateTo returns a command that requests navigation to target.
func navigateTo(target route.Route) tea.Cmd {
	return func() tea.Msg { return navigateMsg{target: target} }
}

// Model is the root model that manages view routing, layout, and the
// long-lived notifier.
type Model struct {
	currentView  ViewState
	previousView ViewState
	currentRoute route.Route

	layout ui.Layout
	keys   *keys.KeyMap

	client       *api.Client
	sessions     session.Store
	sink         notify.Sink
	notifier     *notify.Notifier
	pollInterval time.Duration

	loginView         login.Model
	signupView        signup.Model
	projectsView      projects.Model
	projectFormView   projectform.Model
	notificationsView notifications.Model
	homeView          home.Model
	helpView          helpview.Model

	ready    bool
	upcoming int
	pollErr  string
}

// New creates the root application model.
func New(client *api.Client, sessions session.Store, sink notify.Sink, cfg *model.AppConfig) Model {
	k := keys.DefaultKeyMap()

	pollInterval := time.Duration(cfg.Notifications.PollIntervalSec) * time.Second

	m := Model{
		currentView:       ViewLogin,
		currentRoute:      route.Login,
		keys:              k,
		client:            client,
		sessions:          sessions,
		sink:              sink,
		pollInterval:      pollInterval,
		loginView:         login.New(80, 24),
		signupView:        signup.New(80, 24),
		projectsView:      projects.New(k, 80, 24),
		projectFormView:   projectform.New(80, 24),
		notificationsView: notifications.New(80, 24),
		homeView:          home.New(80, 24),
		helpView:          helpview.New(k, 80, 24),
	}

	if cfg.Notifications.Desktop {
		_ = sink.Enable()
	}

	return m
}

// Init resolves the root route: straight to the dashboard when a stored
// session exists, otherwise to the login screen. A stored session also
// starts the notifier.
func (m Model) Init() tea.Cmd {
	return navigateTo(route.Root)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.loginView.SetSize(contentWidth, contentHeight)
		m.signupView.SetSize(contentWidth, contentHeight)
		m.projectsView.SetSize(contentWidth, contentHeight)
		m.projectFormView.SetSize(contentWidth, contentHeight)
		m.notificationsView.SetSize(contentWidth, contentHeight)
		m.homeView.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		// Forward to the active view so huh forms recalculate layout.
		return m.updateActiveView(msg)

	case navigateMsg:
		// Resuming a stored session (startup) starts polling here; a fresh
		// login starts it in handleLoginResult.
		var startCmd tea.Cmd
		if m.notifier == nil && m.sessions.Get().Authenticated() {
			startCmd = m.startNotifier()
		}
		return m, tea.Batch(startCmd, m.navigate(msg.target))

	case login.SubmittedMsg:
		return m, m.loginCmd(msg.Email, msg.Password)

	case login.AbortedMsg:
		m.stopNotifier()
		return m, tea.Quit

	case loginResultMsg:
		return m.handleLoginResult(msg)

	case signup.SubmittedMsg:
		return m, m.signupCmd(msg.Username, msg.Email, msg.Password)

	case signup.CancelledMsg:
		return m, navigateTo(route.Login)

	case signupResultMsg:
		return m.handleSignupResult(msg)

	case projectsLoadedMsg:
		if msg.err != nil {
			if api.IsAuthError(msg.err) {
				return m, m.handleAuthError(msg.err)
			}
			m.projectsView.SetError(api.UserMessage(msg.err))
			return m, nil
		}
		return m, m.projectsView.SetProjects(msg.projects)

	case projectMutatedMsg:
		if msg.err != nil {
			if api.IsAuthError(msg.err) {
				return m, m.handleAuthError(msg.err)
			}
			m.projectsView.SetError(api.UserMessage(msg.err))
			return m, nil
		}
		// Refetch after mutation; the server owns project state.
		return m, tea.Batch(m.projectsView.SetLoading(true), m.loadProjects())

	case projectform.CreatedMsg:
		m.currentView = ViewProjects
		return m, tea.Batch(
			m.projectsView.SetLoading(true),
			m.createProject(msg.Fields),
		)

	case projectform.UpdatedMsg:
		m.currentView = ViewProjects
		return m, tea.Batch(
			m.projectsView.SetLoading(true),
			m.updateProject(msg.ID, msg.Fields),
		)

	case projectform.CancelMsg:
		m.currentView = ViewProjects
		return m, nil

	case notify.ResultMsg:
		return m.handlePollResult(msg)

	case tea.KeyMsg:
		if next, cmd, handled := m.handleGlobalKeys(msg); handled {
			return next, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handlePollResult folds one notifier cycle into the UI.
func (m Model) handlePollResult(msg notify.ResultMsg) (tea.Model, tea.Cmd) {
	if m.notifier == nil {
		// Stale result from a notifier that was stopped on logout.
		return m, nil
	}
	if msg.AuthError {
		return m, m.handleAuthError(msg.Err)
	}

	if msg.Err != nil {
		// One failed cycle is not fatal; keep the last good reminders on
		// screen and keep listening.
		m.pollErr = api.UserMessage(msg.Err)
		m.notificationsView.SetStatus(m.pollErr + " Retrying shortly.")
		return m, m.notifier.WaitForNextResult()
	}

	m.pollErr = ""
	m.upcoming = len(msg.Reminders)
	m.notificationsView.SetReminders(msg.Reminders)
	return m, m.notifier.WaitForNextResult()
}

// handleGlobalKeys processes keys that are not owned by the focused form.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		m.stopNotifier()
		return m, tea.Quit, true
	}

	switch m.currentView {
	case ViewLogin:
		if msg.String() == "ctrl+s" {
			return m, navigateTo(route.Signup), true
		}

	case ViewProjects:
		return m.handleProjectsKeys(msg)

	case ViewNotifications:
		switch {
		case key.Matches(msg, m.keys.EnableAlerts):
			_ = m.sink.Enable()
			m.notificationsView.SetSinkEnabled(true)
			if m.notifier != nil {
				// Re-evaluate immediately so an already-urgent deadline
				// alerts without waiting a full interval.
				m.notifier.RefreshNow()
			}
			return m, nil, true
		case key.Matches(msg, m.keys.Refresh):
			if m.notifier != nil {
				m.notifier.RefreshNow()
			}
			return m, nil, true
		case key.Matches(msg, m.keys.GoProjects), key.Matches(msg, m.keys.Back):
			return m, navigateTo(route.Projects), true
		case key.Matches(msg, m.keys.GoHome):
			return m, navigateTo(route.DefaultPath(m.sessions.Get().Role())), true
		case key.Matches(msg, m.keys.Logout):
			return m, m.logout(), true
		case key.Matches(msg, m.keys.Help):
			return m.toggleHelp()
		case key.Matches(msg, m.keys.Quit):
			m.stopNotifier()
			return m, tea.Quit, true
		}

	case ViewHome:
		switch {
		case key.Matches(msg, m.keys.GoProjects):
			return m, navigateTo(route.Projects), true
		case key.Matches(msg, m.keys.GoNotifications):
			return m, navigateTo(route.Notifications), true
		case key.Matches(msg, m.keys.Logout):
			return m, m.logout(), true
		case key.Matches(msg, m.keys.Help):
			return m.toggleHelp()
		case key.Matches(msg, m.keys.Quit):
			m.stopNotifier()
			return m, tea.Quit, true
		}

	case ViewHelp:
		if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Back) {
			m.currentView = m.previousView
			return m, nil, true
		}
	}

	return m, nil, false
}

// handleProjectsKeys processes dashboard shortcuts.
func (m Model) handleProjectsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.New):
		m.previousView = m.currentView
		m.currentView = ViewProjectCreate
		return m, m.projectFormView.StartCreate(), true

	case key.Matches(msg, m.keys.Edit):
		if p, ok := m.projectsView.SelectedProject(); ok {
			m.previousView = m.currentView
			m.currentView = ViewProjectEdit
			return m, m.projectFormView.StartEdit(p), true
		}
		return m, nil, true

	case key.Matches(msg, m.keys.Delete):
		if p, ok := m.projectsView.SelectedProject(); ok {
			return m, tea.Batch(
				m.projectsView.SetLoading(true),
				m.deleteProject(p.ID),
			), true
		}
		return m, nil, true

	case key.Matches(msg, m.keys.ToggleComplete):
		if p, ok := m.projectsView.SelectedProject(); ok {
			return m, tea.Batch(
				m.projectsView.SetLoading(true),
				m.toggleProjectComplete(p),
			), true
		}
		return m, nil, true

	case key.Matches(msg, m.keys.ShowAll):
		return m, m.projectsView.ToggleShowAll(), true

	case key.Matches(msg, m.keys.Refresh):
		return m, tea.Batch(m.projectsView.SetLoading(true), m.loadProjects()), true

	case key.Matches(msg, m.keys.GoNotifications):
		return m, navigateTo(route.Notifications), true

	case key.Matches(msg, m.keys.GoHome):
		return m, navigateTo(route.DefaultPath(m.sessions.Get().Role())), true

	case key.Matches(msg, m.keys.Logout):
		return m, m.logout(), true

	case key.Matches(msg, m.keys.Help):
		return m.toggleHelp()

	case key.Matches(msg, m.keys.Quit):
		m.stopNotifier()
		return m, tea.Quit, true
	}

	return m, nil, false
}

// toggleHelp flips to the help overlay, remembering the prior view.
func (m Model) toggleHelp() (tea.Model, tea.Cmd, bool) {
	m.previousView = m.currentView
	m.currentView = ViewHelp
	return m, nil, true
}

// navigate resolves the guard's decision chain for target and mounts the
// resulting view. Redirect chains are short (at most public -> landing),
// so the loop always terminates.
func (m *Model) navigate(target route.Route) tea.Cmd {
	decision := route.Authorize(target, m.sessions.Get())
	for !decision.Allowed {
		target = decision.RedirectPath
		decision = route.Authorize(target, m.sessions.Get())
	}
	return m.mount(target)
}

// mount switches to the view for an allowed route and returns its entry
// command.
func (m *Model) mount(target route.Route) tea.Cmd {
	m.previousView = m.currentView
	m.currentRoute = target

	switch target {
	case route.Login:
		m.currentView = ViewLogin
		return m.loginView.Start()

	case route.Signup:
		m.currentView = ViewSignup
		return m.signupView.Start()

	case route.Projects:
		m.currentView = ViewProjects
		return tea.Batch(m.projectsView.SetLoading(true), m.loadProjects())

	case route.Notifications:
		m.currentView = ViewNotifications
		m.notificationsView.SetSinkEnabled(m.sink.Enabled())
		if m.notifier != nil {
			m.notifier.RefreshNow()
		}
		return nil

	case route.Home, route.Admin, route.Student:
		m.currentView = ViewHome
		m.homeView.SetUser(m.sessions.Get().User)
		switch target {
		case route.Admin:
			m.homeView.SetTitle("Admin Dashboard")
		case route.Student:
			m.homeView.SetTitle("Student Dashboard")
		default:
			m.homeView.SetTitle("Home")
		}
		return nil
	}

	return nil
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewLogin:
		m.loginView, cmd = m.loginView.Update(msg)
	case ViewSignup:
		m.signupView, cmd = m.signupView.Update(msg)
	case ViewProjects:
		m.projectsView, cmd = m.projectsView.Update(msg)
	case ViewProjectCreate, ViewProjectEdit:
		m.projectFormView, cmd = m.projectFormView.Update(msg)
	case ViewNotifications:
		// Display-only; results arrive through the root model.
	case ViewHome:
		// Static.
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	headerTitle := "Task Track"
	if m.upcoming > 0 {
		headerTitle = fmt.Sprintf("Task Track [%d due]", m.upcoming)
	}
	header := m.layout.RenderHeader(headerTitle, m.headerStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.Frame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewLogin:
		return m.loginView.View()
	case ViewSignup:
		return m.signupView.View()
	case ViewProjects:
		return m.projectsView.View()
	case ViewProjectCreate, ViewProjectEdit:
		return m.projectFormView.View()
	case ViewNotifications:
		return m.notificationsView.View()
	case ViewHome:
		return m.homeView.View()
	case ViewHelp:
		return m.helpView.View()
	default:
		return ""
	}
}

// headerStatus summarizes the session and polling state for the header.
func (m Model) headerStatus() string {
	sess := m.sessions.Get()
	if !sess.Authenticated() {
		return "signed out"
	}

	name := ""
	if sess.User != nil {
		name = sess.User.Username
	}
	if m.pollErr != "" {
		return name + " ⚠ offline"
	}
	return name
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewLogin:
		return "enter submit | ctrl+s sign up | ctrl+c quit"
	case ViewSignup:
		return "enter submit | esc back to login"
	case ViewProjects:
		return "n new | e edit | d delete | x toggle | H all | r refresh | 2 notifications | L log out | ? help"
	case ViewProjectCreate, ViewProjectEdit:
		return "enter submit | esc cancel"
	case ViewNotifications:
		return "a enable alerts | r refresh | 1 projects | esc back | L log out"
	case ViewHome:
		return "1 projects | 2 notifications | L log out | q quit"
	case ViewHelp:
		return "? close help | esc back"
	default:
		return ""
	}
}

// startNotifier replaces any prior notifier with a fresh polling process.
// Notifiers are one-shot: a stopped notifier never restarts, so each login
// gets its own.
func (m *Model) startNotifier() tea.Cmd {
	m.stopNotifier()
	m.notifier = notify.New(m.client, m.sessions, m.sink, m.pollInterval)
	return m.notifier.Start()
}

// stopNotifier halts polling if a notifier is running.
func (m *Model) stopNotifier() {
	if m.notifier != nil {
		m.notifier.Stop()
	}
}

// logout tears down the session and returns to the login screen.
func (m *Model) logout() tea.Cmd {
	m.stopNotifier()
	m.notifier = nil
	_ = m.sessions.Clear()
	m.upcoming = 0
	m.pollErr = ""
	return navigateTo(route.Login)
}

// handleAuthError reacts to a session-invalidating API response: clear the
// stored session, stop polling, and land on login with an explanation.
func (m *Model) handleAuthError(err error) tea.Cmd {
	m.stopNotifier()
	m.notifier = nil
	_ = m.sessions.Clear()
	m.upcoming = 0
	m.currentView = ViewLogin
	m.currentRoute = route.Login
	return m.loginView.SetError(api.UserMessage(err))
}
