package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Tab      key.Binding
	Enter    key.Binding
	Add      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Project  key.Binding
	Rename   key.Binding
	Type     key.Binding
	Parent   key.Binding
	Status   key.Binding
	Generate key.Binding
	Update   key.Binding
	APIKey   key.Binding
	Help     key.Binding
	Quit     key.Binding
	Escape   key.Binding
	Refresh  key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "projects")),
	Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "entries")),
	Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
	Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
	Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add entry")),
	Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit entry")),
	Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Project:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "new project")),
	Rename:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename project")),
	Type:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "cycle type")),
	Parent:   key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "cycle parent")),
	Status:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "set status")),
	Generate: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "project notes")),
	Update:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "periodic update")),
	APIKey:   key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "set API key")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Escape:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Refresh:  key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reload")),
}
