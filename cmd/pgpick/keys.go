package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	// Search pane.
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Clear  key.Binding

	// Map pane.
	PanNorth key.Binding
	PanSouth key.Binding
	PanWest  key.Binding
	PanEast  key.Binding
	ZoomIn   key.Binding
	ZoomOut  key.Binding
	Locate   key.Binding
	Search   key.Binding
	Reset    key.Binding

	FocusToggle key.Binding
	LocateAny   key.Binding
	Quit        key.Binding
}

var defaultKeyMap = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "prev result")),
	Down:   key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "next result")),
	Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "pick result")),
	Clear:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear search")),

	PanNorth: key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "pan north")),
	PanSouth: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "pan south")),
	PanWest:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "pan west")),
	PanEast:  key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "pan east")),
	ZoomIn:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
	ZoomOut:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
	Locate:   key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "locate me")),
	Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset pin")),

	FocusToggle: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
	LocateAny:   key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("C-l", "locate me")),
	Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}
