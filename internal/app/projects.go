package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/tasktrack/internal/api"
	"github.com/nhle/tasktrack/internal/model"
)

// projectsLoadedMsg carries a dashboard refetch result.
type projectsLoadedMsg struct {
	projects []model.Project
	err      error
}

// projectMutatedMsg carries the outcome of a create/update/delete.
type projectMutatedMsg struct {
	err error
}

// loadProjects fetches the project list for the dashboard.
func (m Model) loadProjects() tea.Cmd {
	client := m.client
	token := m.sessions.Get().Token
	return func() tea.Msg {
		projects, err := client.ListProjects(context.Background(), token)
		return projectsLoadedMsg{projects: projects, err: err}
	}
}

// createProject creates a project, then the caller refetches.
func (m Model) createProject(fields api.ProjectFields) tea.Cmd {
	client := m.client
	token := m.sessions.Get().Token
	return func() tea.Msg {
		_, err := client.CreateProject(context.Background(), token, fields)
		return projectMutatedMsg{err: err}
	}
}

// updateProject saves edits to a project.
func (m Model) updateProject(id int, fields api.ProjectFields) tea.Cmd {
	client := m.client
	token := m.sessions.Get().Token
	return func() tea.Msg {
		_, err := client.UpdateProject(context.Background(), token, id, fields)
		return projectMutatedMsg{err: err}
	}
}

// deleteProject removes a project.
func (m Model) deleteProject(id int) tea.Cmd {
	client := m.client
	token := m.sessions.Get().Token
	return func() tea.Msg {
		err := client.DeleteProject(context.Background(), token, id)
		return projectMutatedMsg{err: err}
	}
}

// toggleProjectComplete flips the completed flag on the server.
func (m Model) toggleProjectComplete(p model.Project) tea.Cmd {
	fields := api.FieldsFrom(p)
	fields.IsCompleted = !fields.IsCompleted
	return m.updateProject(p.ID, fields)
}
