package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings. Plain letters belong to the query
// input, so actions sit on control keys.
type keyMap struct {
	// Global
	Quit        key.Binding
	Help        key.Binding
	CycleTheme  key.Binding
	ToggleDense key.Binding
	Escape      key.Binding

	// Views
	Settings key.Binding
	Logs     key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Item actions
	Open          key.Binding
	TogglePin     key.Binding
	ToggleMark    key.Binding
	Hide          key.Binding
	HideDomain    key.Binding
	TagMode       key.Binding
	RemoveLastTag key.Binding

	// Settings panel
	ToggleIndexer key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "Cycle theme"),
		),
		ToggleDense: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "Compact rows"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back to results"),
		),

		Settings: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "Server settings"),
		),
		Logs: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "Diagnostics log"),
		),

		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+k"),
			key.WithHelp("up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+j"),
			key.WithHelp("down", "Move down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdown", "Page down"),
		),

		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "View stored content"),
		),
		TogglePin: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "Pin/unpin"),
		),
		ToggleMark: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("ctrl+b", "Bookmark/unbookmark"),
		),
		Hide: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "Hide item"),
		),
		HideDomain: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "Hide domain"),
		),
		TagMode: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Add tags"),
		),
		RemoveLastTag: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "Remove last tag"),
		),

		ToggleIndexer: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "Toggle indexer"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings grouped for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Open, k.TogglePin, k.ToggleMark, k.Hide, k.HideDomain, k.TagMode, k.RemoveLastTag},
		{k.Settings, k.Logs, k.Escape},
		{k.CycleTheme, k.ToggleDense, k.Help, k.Quit},
	}
}
