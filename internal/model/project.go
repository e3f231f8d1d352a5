package model

// Project is a tracked project as served by the remote API. The client keeps
// projects in memory only, for the lifetime of a screen; the server owns them.
type Project struct {
	// ID is the server-assigned unique identifier.
	ID int `json:"id"`

	// Title is the human-readable project name.
	Title string `json:"title"`

	// Description is the full project description text.
	Description string `json:"description"`

	// Deadline is when the project is due. Zero when no deadline is set.
	Deadline Timestamp `json:"deadline"`

	// NotificationsEnabled controls whether deadline reminders may fire.
	NotificationsEnabled bool `json:"notifications_enabled"`

	// IsCompleted marks the project as done.
	IsCompleted bool `json:"is_completed"`
}

// HasDeadline reports whether a deadline is set.
func (p Project) HasDeadline() bool {
	return !p.Deadline.IsZero()
}
