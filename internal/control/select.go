package control

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/yakschuss/dialkit-rails/internal/controlspec"
	"github.com/yakschuss/dialkit-rails/internal/keys"
	"github.com/yakschuss/dialkit-rails/internal/ui/styles"
)

// armOutsideMsg enables outside-click closing of the dropdown it names.
// It is delivered one message hop after opening, so the click that opened
// the dropdown can never close it.
type armOutsideMsg struct {
	zoneID string
}

// Select is a single choice among ordered options, shown as a trigger
// that opens a dropdown list. Every Select keeps its own open state.
type Select struct {
	base
	spec   controlspec.Select
	value  any
	label  string
	open   bool
	armed  bool
	cursor int
}

// NewSelect creates a select at its default and binds it.
func NewSelect(key string, spec controlspec.Select, target Target) *Select {
	value := spec.Default
	if value == nil && len(spec.Options) > 0 {
		value = spec.Options[0].Value
	}
	s := &Select{
		base:  newBase(key, target),
		spec:  spec,
		value: value,
		label: controlspec.OptionLabel(value, spec.Options),
	}
	s.bind(value)
	return s
}

func (s *Select) Spec() controlspec.Spec { return s.spec }
func (s *Select) Value() (any, bool)     { return s.value, true }

// Label is the display label of the current value.
func (s *Select) Label() string { return s.label }

// IsOpen reports whether the dropdown is showing.
func (s *Select) IsOpen() bool { return s.open }

// Open shows the dropdown. The returned command arms outside-click
// closing on the next hop.
func (s *Select) Open() tea.Cmd {
	if s.open {
		return nil
	}
	s.open = true
	s.armed = false
	s.cursor = s.selectedIndex()
	id := s.zoneID
	return func() tea.Msg { return armOutsideMsg{zoneID: id} }
}

// Close hides the dropdown.
func (s *Select) Close() {
	s.open = false
	s.armed = false
}

// Toggle opens or closes the dropdown.
func (s *Select) Toggle() tea.Cmd {
	if s.open {
		s.Close()
		return nil
	}
	return s.Open()
}

// Choose selects option i, binds its value and closes the dropdown.
func (s *Select) Choose(i int) {
	if i < 0 || i >= len(s.spec.Options) {
		return
	}
	opt := s.spec.Options[i]
	s.value = opt.Value
	s.label = opt.Label
	s.bind(opt.Value)
	s.Close()
}

// Editing reports whether the dropdown captures keys.
func (s *Select) Editing() bool { return s.open }

// StopEditing closes the dropdown.
func (s *Select) StopEditing() { s.Close() }

func (s *Select) selectedIndex() int {
	for i, opt := range s.spec.Options {
		if opt.Value == s.value {
			return i
		}
	}
	return 0
}

func (s *Select) optionZone(i int) string { return s.subZone("opt" + strconv.Itoa(i)) }

// InBounds covers the trigger and, while open, every option row.
func (s *Select) InBounds(msg tea.MouseMsg) bool {
	if hit(s.zoneID, msg) {
		return true
	}
	if s.open {
		for i := range s.spec.Options {
			if hit(s.optionZone(i), msg) {
				return true
			}
		}
	}
	return false
}

func (s *Select) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case armOutsideMsg:
		if msg.zoneID == s.zoneID && s.open {
			s.armed = true
		}
	case tea.KeyMsg:
		return s.handleKey(msg)
	case tea.MouseMsg:
		return s.handleMouse(msg)
	}
	return nil
}

func (s *Select) handleKey(msg tea.KeyMsg) tea.Cmd {
	if !s.open {
		if key.Matches(msg, keys.Panel.Activate) {
			return s.Open()
		}
		return nil
	}
	switch {
	case key.Matches(msg, keys.Panel.Escape):
		s.Close()
	case key.Matches(msg, keys.Panel.Next):
		if n := len(s.spec.Options); n > 0 {
			s.cursor = (s.cursor + 1) % n
		}
	case key.Matches(msg, keys.Panel.Prev):
		if n := len(s.spec.Options); n > 0 {
			s.cursor = (s.cursor - 1 + n) % n
		}
	case key.Matches(msg, keys.Panel.Activate):
		s.Choose(s.cursor)
	}
	return nil
}

func (s *Select) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if !isClick(msg) {
		return nil
	}
	if s.open {
		for i := range s.spec.Options {
			if hit(s.optionZone(i), msg) {
				s.Choose(i)
				return nil
			}
		}
	}
	if hit(s.zoneID, msg) {
		return s.Toggle()
	}
	if s.open && s.armed {
		s.Close()
	}
	return nil
}

func (s *Select) View(focused bool, width int) string {
	chevron := "▾"
	if s.open {
		chevron = "▴"
	}
	trigger := zone.Mark(s.zoneID, row(FormatLabel(s.key), styles.ValueStyle.Render(s.label)+" "+chevron, width, focused))
	if !s.open {
		return trigger
	}
	lines := []string{trigger}
	for i, opt := range s.spec.Options {
		mark := "  "
		if opt.Value == s.value {
			mark = "✓ "
		}
		text := "    " + mark + styles.TruncateString(opt.Label, max(width-6, 1))
		if i == s.cursor {
			text = styles.LabelFocusedStyle.Render(text)
		} else {
			text = styles.LabelStyle.Render(text)
		}
		lines = append(lines, zone.Mark(s.optionZone(i), styles.PadRight(text, width)))
	}
	return strings.Join(lines, "\n")
}
