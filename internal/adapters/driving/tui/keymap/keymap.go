// Package keymap defines keybindings for the apply confirmation prompt.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the confirmation prompt.
type KeyMap struct {
	// Yes creates the proposed record.
	Yes key.Binding

	// No skips the proposed record.
	No key.Binding

	// All creates this and every remaining record without asking.
	All key.Binding

	// Quit skips this and every remaining record.
	Quit key.Binding

	// Help toggles the full help line.
	Help key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Yes: key.NewBinding(
			key.WithKeys("y", "Y", "enter"),
			key.WithHelp("y", "create"),
		),
		No: key.NewBinding(
			key.WithKeys("n", "N"),
			key.WithHelp("n", "skip"),
		),
		All: key.NewBinding(
			key.WithKeys("a", "A"),
			key.WithHelp("a", "create all"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Yes, k.No, k.Help}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Yes, k.No},
		{k.All, k.Quit},
		{k.Help},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
