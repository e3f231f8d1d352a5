package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation within a list
	Down key.Binding
	Up   key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Help toggle
	Help key.Binding

	// Screen switching
	GoProjects      key.Binding
	GoNotifications key.Binding
	GoHome          key.Binding

	// Dashboard actions
	New            key.Binding
	Edit           key.Binding
	Delete         key.Binding
	ToggleComplete key.Binding
	ShowAll        key.Binding
	Refresh        key.Binding

	// Notifications screen
	EnableAlerts key.Binding

	// Session
	Logout key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		GoProjects: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "projects"),
		),
		GoNotifications: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "notifications"),
		),
		GoHome: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "home"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new project"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		ToggleComplete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "toggle complete"),
		),
		ShowAll: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "show/hide completed"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		EnableAlerts: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "enable alerts"),
		),
		Logout: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "log out"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Refresh, k.Help, k.Quit,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Back, k.Quit, k.Help},
		{k.GoProjects, k.GoNotifications, k.GoHome, k.Logout},
		{k.New, k.Edit, k.Delete, k.ToggleComplete, k.ShowAll},
		{k.Refresh, k.EnableAlerts},
	}
}
