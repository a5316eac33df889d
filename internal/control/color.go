package control

import (
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/yakschuss/dialkit-rails/internal/controlspec"
	"github.com/yakschuss/dialkit-rails/internal/keys"
	"github.com/yakschuss/dialkit-rails/internal/ui/styles"
)

const (
	hueStep       = 10.0
	lightnessStep = 0.05
)

// Color is a hex colour control: a swatch, the hex text, and an inline
// hex input. The stored value keeps the author's form (#fff stays #fff).
type Color struct {
	base
	spec    controlspec.Color
	value   string
	input   textinput.Model
	editing bool
}

// NewColor creates a colour control at its default and binds it.
func NewColor(key string, spec controlspec.Color, target Target) *Color {
	value := spec.Default
	if value == "" {
		value = "#000000"
	}
	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = 9
	in.Placeholder = "#rrggbb"
	c := &Color{base: newBase(key, target), spec: spec, value: value, input: in}
	c.bind(c.value)
	return c
}

func (c *Color) Spec() controlspec.Spec { return c.spec }
func (c *Color) Value() (any, bool)     { return c.value, true }

// Hex returns the stored value.
func (c *Color) Hex() string { return c.value }

// PickerValue is the value handed to the picker: a short #rgb is expanded
// to #rrggbb, anything else is returned as is.
func (c *Color) PickerValue() string {
	return ExpandShortHex(c.value)
}

// ExpandShortHex expands #rgb to #rrggbb.
func ExpandShortHex(hex string) string {
	if len(hex) == 4 {
		return "#" + strings.Repeat(hex[1:2], 2) + strings.Repeat(hex[2:3], 2) + strings.Repeat(hex[3:4], 2)
	}
	return hex
}

// Commit stores hex and binds it. Strings that are not hex colours are
// ignored.
func (c *Color) Commit(hex string) {
	if !controlspec.IsHexColor(hex) || hex == c.value {
		return
	}
	c.value = hex
	c.bind(hex)
}

// Adjust rotates the hue by dh degrees and shifts lightness by dl,
// committing the result as lower-case #rrggbb. An alpha suffix of an
// 8-digit colour is kept.
func (c *Color) Adjust(dh, dl float64) {
	rgb, alpha := c.PickerValue(), ""
	if len(rgb) == 9 {
		rgb, alpha = rgb[:7], strings.ToLower(rgb[7:])
	}
	col, err := colorful.Hex(rgb)
	if err != nil {
		return
	}
	h, s, l := col.Hsl()
	h = math.Mod(h+dh+360, 360)
	l = math.Min(math.Max(l+dl, 0), 1)
	c.Commit(colorful.Hsl(h, s, l).Clamped().Hex() + alpha)
}

// Editing reports whether the hex input has focus.
func (c *Color) Editing() bool { return c.editing }

// StartEditing focuses the hex input with the current value.
func (c *Color) StartEditing() tea.Cmd {
	c.editing = true
	c.input.SetValue(c.value)
	c.input.CursorEnd()
	return c.input.Focus()
}

// StopEditing blurs the hex input.
func (c *Color) StopEditing() {
	c.editing = false
	c.input.Blur()
}

func (c *Color) InBounds(msg tea.MouseMsg) bool { return hit(c.zoneID, msg) }

func (c *Color) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if c.editing {
			if key.Matches(msg, keys.Panel.Escape) || msg.Type == tea.KeyEnter {
				c.StopEditing()
				return nil
			}
			var cmd tea.Cmd
			c.input, cmd = c.input.Update(msg)
			c.Commit(strings.TrimSpace(c.input.Value()))
			return cmd
		}
		switch {
		case key.Matches(msg, keys.Panel.Activate):
			return c.StartEditing()
		case key.Matches(msg, keys.Panel.Decrease):
			c.Adjust(-hueStep, 0)
		case key.Matches(msg, keys.Panel.Increase):
			c.Adjust(hueStep, 0)
		case key.Matches(msg, keys.Panel.Lighter):
			c.Adjust(0, lightnessStep)
		case key.Matches(msg, keys.Panel.Darker):
			c.Adjust(0, -lightnessStep)
		}
	case tea.MouseMsg:
		if clicked(c.zoneID, msg) && !c.editing {
			return c.StartEditing()
		}
		if isClick(msg) && c.editing && !hit(c.zoneID, msg) {
			c.StopEditing()
		}
	}
	return nil
}

func (c *Color) View(focused bool, width int) string {
	swatch := lipgloss.NewStyle().Background(lipgloss.Color(c.PickerValue())).Render("  ")
	text := styles.ValueStyle.Render(c.value)
	if c.editing {
		text = c.input.View()
	}
	return zone.Mark(c.zoneID, row(FormatLabel(c.key), swatch+" "+text, width, focused))
}
