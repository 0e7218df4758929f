package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the board view bindings. It implements help.KeyMap.
type keyMap struct {
	Left, Right, Up, Down  key.Binding
	Detail, Move           key.Binding
	Next, Prev             key.Binding
	ReorderUp, ReorderDown key.Binding
	Create, Delete         key.Binding
	Packages, Stats        key.Binding
	Reload, Help           key.Binding
	Quit, ForceQuit        key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Left:        key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "left column")),
		Right:       key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "right column")),
		Up:          key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "cursor up")),
		Down:        key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "cursor down")),
		Detail:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "task detail")),
		Move:        key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move to column")),
		Next:        key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "move to next column")),
		Prev:        key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "move to previous column")),
		ReorderUp:   key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move card up")),
		ReorderDown: key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move card down")),
		Create:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "new task")),
		Delete:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete task")),
		Packages:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "package view")),
		Stats:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "statistics")),
		Reload:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q/esc", "quit")),
		ForceQuit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "force quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Detail, k.Move, k.Next, k.Prev, k.Create, k.Delete, k.Packages, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down, k.Detail},
		{k.Move, k.Next, k.Prev, k.ReorderUp, k.ReorderDown},
		{k.Create, k.Delete, k.Packages, k.Stats, k.Reload},
		{k.Help, k.Quit, k.ForceQuit},
	}
}
