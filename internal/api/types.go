package api

import "github.com/nhle/tasktrack/internal/model"

// ProjectFields is the mutable subset of a project sent on create and update.
type ProjectFields struct {
	Title                string          `json:"title"`
	Description          string          `json:"description"`
	Deadline             model.Timestamp `json:"deadline"`
	NotificationsEnabled bool            `json:"notifications_enabled"`
	IsCompleted          bool            `json:"is_completed"`
}

// FieldsFrom extracts the editable fields of an existing project.
func FieldsFrom(p model.Project) ProjectFields {
	return ProjectFields{
		Title:                p.Title,
		Description:          p.Description,
		Deadline:             p.Deadline,
		NotificationsEnabled: p.NotificationsEnabled,
		IsCompleted:          p.IsCompleted,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role,omitempty"`
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// messageResponse is the error/status envelope the API uses for failures.
type messageResponse struct {
	Message string `json:"message"`
}

type projectListResponse struct {
	Data []model.Project `json:"data"`
}

type projectResponse struct {
	Data model.Project `json:"data"`
}
