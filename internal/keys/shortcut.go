package keys

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrShortcut is returned for shortcut strings without a key.
var ErrShortcut = errors.New("invalid keyboard shortcut")

// Shortcut is a parsed "mod+mod+key" combination.
type Shortcut struct {
	Ctrl  bool
	Shift bool
	Alt   bool
	Meta  bool
	Key   string
}

// ParseShortcut parses s case-insensitively. The last "+"-separated part
// is the key; "cmd" is accepted for "meta". Unknown modifiers are ignored.
func ParseShortcut(s string) (Shortcut, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "+")
	sc := Shortcut{Key: parts[len(parts)-1]}
	// "ctrl++" names the plus key.
	if sc.Key == "" && len(parts) > 1 && strings.HasSuffix(s, "++") {
		sc.Key = "+"
		parts = parts[:len(parts)-1]
	}
	if sc.Key == "" {
		return Shortcut{}, fmt.Errorf("%w: %q", ErrShortcut, s)
	}
	for _, p := range parts[:len(parts)-1] {
		switch p {
		case "ctrl":
			sc.Ctrl = true
		case "shift":
			sc.Shift = true
		case "alt":
			sc.Alt = true
		case "meta", "cmd":
			sc.Meta = true
		}
	}
	return sc, nil
}

// String renders the shortcut in canonical modifier order.
func (s Shortcut) String() string {
	var parts []string
	if s.Ctrl {
		parts = append(parts, "ctrl")
	}
	if s.Shift {
		parts = append(parts, "shift")
	}
	if s.Alt {
		parts = append(parts, "alt")
	}
	if s.Meta {
		parts = append(parts, "meta")
	}
	return strings.Join(append(parts, s.Key), "+")
}

// ShiftState is the shift modifier of an Event. Terminals cannot report
// shift together with ctrl, so it may be unknown.
type ShiftState int

const (
	ShiftUp ShiftState = iota
	ShiftDown
	ShiftUnknown
)

// Event is a key press with its modifier state.
type Event struct {
	Ctrl  bool
	Alt   bool
	Meta  bool
	Shift ShiftState
	Key   string
}

// Matches reports whether ev fires the shortcut. All known modifiers must
// agree exactly and the key is compared case-insensitively.
func (s Shortcut) Matches(ev Event) bool {
	if ev.Ctrl != s.Ctrl || ev.Alt != s.Alt || ev.Meta != s.Meta {
		return false
	}
	if ev.Shift != ShiftUnknown && (ev.Shift == ShiftDown) != s.Shift {
		return false
	}
	return strings.EqualFold(ev.Key, s.Key)
}

// FromTea converts a Bubble Tea key message. Upper-case letters report
// shift held; ctrl combinations report shift as unknown unless the
// terminal named it.
func FromTea(msg tea.KeyMsg) Event {
	s := msg.String()
	var ev Event
	shiftNamed := false
	for {
		switch {
		case strings.HasPrefix(s, "ctrl+") && len(s) > len("ctrl+"):
			ev.Ctrl = true
			s = s[len("ctrl+"):]
			continue
		case strings.HasPrefix(s, "alt+") && len(s) > len("alt+"):
			ev.Alt = true
			s = s[len("alt+"):]
			continue
		case strings.HasPrefix(s, "shift+") && len(s) > len("shift+"):
			shiftNamed = true
			s = s[len("shift+"):]
			continue
		}
		break
	}

	runes := []rune(s)
	switch {
	case shiftNamed:
		ev.Shift = ShiftDown
	case len(runes) == 1 && unicode.IsUpper(runes[0]):
		ev.Shift = ShiftDown
	case ev.Ctrl:
		ev.Shift = ShiftUnknown
	default:
		ev.Shift = ShiftUp
	}
	ev.Key = strings.ToLower(s)
	return ev
}
