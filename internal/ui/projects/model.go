package projects

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tasktrack/internal/keys"
	"github.com/nhle/tasktrack/internal/model"
	"github.com/nhle/tasktrack/internal/theme"
)

// Model is the project dashboard view. It renders and selects; all API
// calls are issued by the root model, which pushes results in via
// SetProjects and SetError.
type Model struct {
	list     list.Model
	spinner  spinner.Model
	keys     *keys.KeyMap
	projects []model.Project
	loading  bool
	errMsg   string
	showAll  bool
	width    int
	height   int
}

// New creates a new project dashboard model.
func New(k *keys.KeyMap, width, height int) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = theme.SelectedItemStyle
	delegate.Styles.SelectedDesc = theme.SelectedItemStyle.Foreground(theme.ColorGray)

	l := list.New([]list.Item{}, delegate, width, height-4)
	l.Title = "Projects"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorBlue)

	return Model{
		list:    l,
		spinner: sp,
		keys:    k,
		width:   width,
		height:  height,
	}
}

// SetLoading toggles the loading flag. The returned command keeps the
// spinner ticking while loading.
func (m *Model) SetLoading(loading bool) tea.Cmd {
	m.loading = loading
	if loading {
		m.errMsg = ""
		return m.spinner.Tick
	}
	return nil
}

// SetProjects replaces the dashboard contents and clears the loading flag.
func (m *Model) SetProjects(projects []model.Project) tea.Cmd {
	m.projects = projects
	m.loading = false
	m.errMsg = ""
	return m.applyFilter()
}

// SetError clears the loading flag and records a failure for display, so
// the dashboard never stays stuck loading.
func (m *Model) SetError(msg string) {
	m.loading = false
	m.errMsg = msg
}

// ToggleShowAll switches between showing every project and only active ones.
func (m *Model) ToggleShowAll() tea.Cmd {
	m.showAll = !m.showAll
	return m.applyFilter()
}

// ShowingAll reports the current filter mode.
func (m Model) ShowingAll() bool { return m.showAll }

// SelectedProject returns the project under the cursor.
func (m Model) SelectedProject() (model.Project, bool) {
	item, ok := m.list.SelectedItem().(projectItem)
	if !ok {
		return model.Project{}, false
	}
	return item.project, true
}

// applyFilter rebuilds the visible list from the cached projects.
func (m *Model) applyFilter() tea.Cmd {
	items := make([]list.Item, 0, len(m.projects))
	for _, p := range m.projects {
		if !m.showAll && p.IsCompleted {
			continue
		}
		items = append(items, projectItem{project: p})
	}
	return m.list.SetItems(items)
}

// Update handles messages for the dashboard.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); ok {
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the dashboard.
func (m Model) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(1, 2).Render(
			m.spinner.View() + " Loading projects...",
		)
	}

	var header string
	if m.errMsg != "" {
		header = theme.ErrorStyle.Render(m.errMsg) + "\n"
	}

	footer := theme.HelpStyle.Render(m.filterSummary())

	return lipgloss.JoinVertical(lipgloss.Left, header+m.list.View(), footer)
}

// filterSummary describes the current filter state for the footer line.
func (m Model) filterSummary() string {
	active := 0
	for _, p := range m.projects {
		if !p.IsCompleted {
			active++
		}
	}
	if m.showAll {
		return fmt.Sprintf("showing all %d projects", len(m.projects))
	}
	return fmt.Sprintf("showing %d active of %d projects", active, len(m.projects))
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-4)
}
