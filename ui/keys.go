package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next     key.Binding
	Prev     key.Binding
	Submit   key.Binding
	Press    key.Binding
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	BigLeft  key.Binding
	BigRight key.Binding
	Filter   key.Binding
	Cancel   key.Binding
	Save     key.Binding
	Copy     key.Binding
	Open     key.Binding
	Reload   key.Binding
	Stop     key.Binding
	Help     key.Binding
	Quit     key.Binding
	Suspend  key.Binding
}

var keys = keyMap{
	Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
	Prev:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous field")),
	Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "generate")),
	Press:    key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter/space", "press button")),
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "volume -1%")),
	Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "volume +1%")),
	BigLeft:  key.NewBinding(key.WithKeys("shift+left", "H", "pgdown"), key.WithHelp("H", "volume -10%")),
	BigRight: key.NewBinding(key.WithKeys("shift+right", "L", "pgup"), key.WithHelp("L", "volume +10%")),
	Filter:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
	Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Save:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save meme")),
	Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy saved path")),
	Open:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open image")),
	Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rescan")),
	Stop:     key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "stop speech")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	Suspend:  key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "suspend")),
}
