package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds every binding the TUI reacts to.
type KeyMap struct {
	Quit       key.Binding
	ToggleHelp key.Binding

	Up     key.Binding
	Down   key.Binding
	Select key.Binding

	Back      key.Binding
	Submit    key.Binding
	Backspace key.Binding

	Stop key.Binding
}

func binding(keys []string, label, desc string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, desc))
}

// DefaultKeys returns vim-style navigation plus arrows.
func DefaultKeys() KeyMap {
	return KeyMap{
		Quit:       binding([]string{"q", "ctrl+c"}, "q", "quit"),
		ToggleHelp: binding([]string{"h", "?"}, "?", "help"),
		Up:         binding([]string{"up", "k"}, "↑/k", "up"),
		Down:       binding([]string{"down", "j"}, "↓/j", "down"),
		Select:     binding([]string{"enter", " "}, "enter", "choose"),
		Back:       binding([]string{"esc"}, "esc", "menu"),
		Submit:     binding([]string{"enter"}, "enter", "start simulation"),
		Backspace:  binding([]string{"backspace"}, "⌫", "delete digit"),
		Stop:       binding([]string{"s", "enter"}, "s", "stop simulation"),
	}
}

// NewHelpModel returns a help model in the TUI's colors.
func NewHelpModel() help.Model {
	h := help.New()
	h.ShortSeparator = "  ·  "
	h.Styles.ShortKey = Current.Selected
	h.Styles.ShortDesc = Current.Help
	h.Styles.ShortSeparator = Current.Help
	h.Styles.FullKey = Current.Selected
	h.Styles.FullDesc = Current.Help
	return h
}

// contextKeys is the help.KeyMap for one State.
type contextKeys [][]key.Binding

// ForState returns the bindings that apply on screen s, grouped in
// columns for the full help view.
func (k KeyMap) ForState(s State) help.KeyMap {
	switch s {
	case StateMenu:
		return contextKeys{{k.Up, k.Down, k.Select}, {k.ToggleHelp, k.Quit}}
	case StateTimedInput:
		return contextKeys{{k.Submit, k.Backspace}, {k.Back, k.Quit}}
	case StateRunning:
		return contextKeys{{k.Stop}, {k.ToggleHelp, k.Quit}}
	default:
		return contextKeys{{k.Back, k.Quit}}
	}
}

func (c contextKeys) ShortHelp() []key.Binding {
	var out []key.Binding
	for _, col := range c {
		out = append(out, col...)
	}
	return out
}

func (c contextKeys) FullHelp() [][]key.Binding { return c }
