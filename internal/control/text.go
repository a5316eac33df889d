package control

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/yakschuss/dialkit-rails/internal/controlspec"
	"github.com/yakschuss/dialkit-rails/internal/keys"
	"github.com/yakschuss/dialkit-rails/internal/ui/styles"
)

// Text is a free-form string control. Every input event commits.
type Text struct {
	base
	spec    controlspec.Text
	value   string
	input   textinput.Model
	editing bool
}

// NewText creates a text control at its default and binds it.
func NewText(key string, spec controlspec.Text, target Target) *Text {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = spec.Placeholder
	in.SetValue(spec.Default)
	t := &Text{base: newBase(key, target), spec: spec, value: spec.Default, input: in}
	t.bind(t.value)
	return t
}

func (t *Text) Spec() controlspec.Spec { return t.spec }
func (t *Text) Value() (any, bool)     { return t.value, true }

// Current returns the string value.
func (t *Text) Current() string { return t.value }

// SetValue commits s and binds it.
func (t *Text) SetValue(s string) {
	t.input.SetValue(s)
	t.commit()
}

func (t *Text) commit() {
	if v := t.input.Value(); v != t.value {
		t.value = v
		t.bind(v)
	}
}

// Editing reports whether the input has focus.
func (t *Text) Editing() bool { return t.editing }

// StartEditing focuses the input.
func (t *Text) StartEditing() tea.Cmd {
	t.editing = true
	t.input.CursorEnd()
	return t.input.Focus()
}

// StopEditing blurs the input.
func (t *Text) StopEditing() {
	t.editing = false
	t.input.Blur()
}

func (t *Text) InBounds(msg tea.MouseMsg) bool { return hit(t.zoneID, msg) }

func (t *Text) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !t.editing {
			if key.Matches(msg, keys.Panel.Activate) {
				return t.StartEditing()
			}
			return nil
		}
		if key.Matches(msg, keys.Panel.Escape) || msg.Type == tea.KeyEnter {
			t.StopEditing()
			return nil
		}
		var cmd tea.Cmd
		t.input, cmd = t.input.Update(msg)
		t.commit()
		return cmd
	case tea.MouseMsg:
		if clicked(t.zoneID, msg) && !t.editing {
			return t.StartEditing()
		}
		if isClick(msg) && t.editing && !hit(t.zoneID, msg) {
			t.StopEditing()
		}
	}
	return nil
}

func (t *Text) View(focused bool, width int) string {
	t.input.Width = max(width/2-2, 4)
	var shown string
	switch {
	case t.editing:
		shown = t.input.View()
	case t.value == "" && t.spec.Placeholder != "":
		shown = styles.MutedStyle.Render(t.spec.Placeholder)
	default:
		shown = styles.ValueStyle.Render(styles.TruncateString(t.value, max(width/2, 4)))
	}
	return zone.Mark(t.zoneID, row(FormatLabel(t.key), shown, width, focused))
}
