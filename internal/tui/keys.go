package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up      key.Binding
	down    key.Binding
	left    key.Binding
	right   key.Binding
	zoomIn  key.Binding
	zoomOut key.Binding
	enter   key.Binding
	esc     key.Binding
	tab     key.Binding
	backtab key.Binding
	quit    key.Binding
	newNote key.Binding
	place   key.Binding
	refresh key.Binding
	move    key.Binding
	delete  key.Binding
	copy    key.Binding
	author  key.Binding
	info    key.Binding
	yes     key.Binding
	no      key.Binding
}

var keys = keyMap{
	up:      key.NewBinding(key.WithKeys("up", "k")),
	down:    key.NewBinding(key.WithKeys("down", "j")),
	left:    key.NewBinding(key.WithKeys("left", "h")),
	right:   key.NewBinding(key.WithKeys("right", "l")),
	zoomIn:  key.NewBinding(key.WithKeys("+", "=")),
	zoomOut: key.NewBinding(key.WithKeys("-", "_")),
	enter:   key.NewBinding(key.WithKeys("enter")),
	esc:     key.NewBinding(key.WithKeys("esc")),
	tab:     key.NewBinding(key.WithKeys("tab")),
	backtab: key.NewBinding(key.WithKeys("shift+tab")),
	quit:    key.NewBinding(key.WithKeys("q", "ctrl+c")),
	newNote: key.NewBinding(key.WithKeys("n")),
	place:   key.NewBinding(key.WithKeys("p")),
	refresh: key.NewBinding(key.WithKeys("r")),
	move:    key.NewBinding(key.WithKeys("m")),
	delete:  key.NewBinding(key.WithKeys("x", "d")),
	copy:    key.NewBinding(key.WithKeys("c")),
	author:  key.NewBinding(key.WithKeys("a")),
	info:    key.NewBinding(key.WithKeys("i")),
	yes:     key.NewBinding(key.WithKeys("y")),
	no:      key.NewBinding(key.WithKeys("n")),
}
