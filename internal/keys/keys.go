// Package keys contains the panel keybindings and the parser for the
// boot-time visibility shortcut.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings of the panel.
type KeyMap struct {
	// Navigation
	Next key.Binding
	Prev key.Binding

	// Control adjustment
	Decrease    key.Binding
	Increase    key.Binding
	DecreaseBig key.Binding
	IncreaseBig key.Binding
	Home        key.Binding
	End         key.Binding
	Lighter     key.Binding
	Darker      key.Binding

	// Actions
	Activate key.Binding
	Copy     key.Binding
	Preview  key.Binding

	// General
	Help   key.Binding
	Logs   key.Binding
	Escape key.Binding
	Quit   key.Binding
}

// Panel is the default panel key map.
var Panel = DefaultKeyMap()

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "j", "down"),
			key.WithHelp("tab/j", "next control"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "k", "up"),
			key.WithHelp("shift+tab/k", "previous control"),
		),

		Decrease: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "decrease"),
		),
		Increase: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "increase"),
		),
		DecreaseBig: key.NewBinding(
			key.WithKeys("shift+left", "H"),
			key.WithHelp("H", "decrease ×10"),
		),
		IncreaseBig: key.NewBinding(
			key.WithKeys("shift+right", "L"),
			key.WithHelp("L", "increase ×10"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "0"),
			key.WithHelp("home", "minimum"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "$"),
			key.WithHelp("end", "maximum"),
		),
		Lighter: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "lighter"),
		),
		Darker: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "darker"),
		),

		Activate: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter/space", "activate"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy values"),
		),
		Preview: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "preview report"),
		),

		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Logs: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "toggle logs (debug)"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close/stop editing"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns keybindings for the mini help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Activate, k.Copy, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev}, // Navigation
		{k.Decrease, k.Increase, k.DecreaseBig, k.IncreaseBig, k.Home, k.End, k.Lighter, k.Darker}, // Adjust
		{k.Activate, k.Copy, k.Preview}, // Actions
		{k.Help, k.Escape, k.Quit},      // General
	}
}
