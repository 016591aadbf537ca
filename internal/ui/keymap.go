package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines keyboard shortcuts for the application
type KeyMap struct {
	// Global navigation
	Quit key.Binding
	Back key.Binding
	Help key.Binding

	Up   key.Binding
	Down key.Binding

	// Dashboard
	Pause      key.Binding
	Step       key.Binding
	Export     key.Binding
	Logs       key.Binding
	ToggleLogs key.Binding

	// Logs
	FilterInfo  key.Binding
	FilterWarn  key.Binding
	FilterError key.Binding
	FilterDebug key.Binding
	Follow      key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),

		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),

		Pause: key.NewBinding(
			key.WithKeys("p", " "),
			key.WithHelp("p", "pause"),
		),
		Step: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "step"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export"),
		),
		Logs: key.NewBinding(
			key.WithKeys("f12", "L"),
			key.WithHelp("L", "logs"),
		),
		ToggleLogs: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "log pane"),
		),

		FilterInfo: key.NewBinding(
			key.WithKeys("f1", "i"),
			key.WithHelp("i", "info"),
		),
		FilterWarn: key.NewBinding(
			key.WithKeys("f2", "w"),
			key.WithHelp("w", "warn"),
		),
		FilterError: key.NewBinding(
			key.WithKeys("f3", "x"),
			key.WithHelp("x", "error"),
		),
		FilterDebug: key.NewBinding(
			key.WithKeys("f4", "d"),
			key.WithHelp("d", "debug"),
		),
		Follow: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "follow"),
		),
	}
}

// ShortHelp returns key help text for the current context
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns extended help text for the current context
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Step, k.Export},
		{k.ToggleLogs, k.Logs, k.Back},
		{k.FilterInfo, k.FilterWarn, k.FilterError, k.FilterDebug, k.Follow},
		{k.Help, k.Quit},
	}
}

// ContextualHelp returns help text based on the current route
func (k KeyMap) ContextualHelp(route Route) []key.Binding {
	switch route {
	case RouteDashboard:
		return []key.Binding{k.Pause, k.Step, k.Export, k.ToggleLogs, k.Logs, k.Help, k.Quit}
	case RouteLogs:
		return []key.Binding{k.Up, k.Down, k.FilterInfo, k.FilterWarn, k.FilterError, k.FilterDebug, k.Follow, k.Back, k.Quit}
	default:
		return k.ShortHelp()
	}
}
