package control

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/yakschuss/dialkit-rails/internal/controlspec"
	"github.com/yakschuss/dialkit-rails/internal/keys"
	"github.com/yakschuss/dialkit-rails/internal/ui/styles"
)

// Toggle is a boolean switch. It binds 1 or 0.
type Toggle struct {
	base
	spec  controlspec.Toggle
	value bool
}

// NewToggle creates a toggle at its default and binds it.
func NewToggle(key string, spec controlspec.Toggle, target Target) *Toggle {
	t := &Toggle{base: newBase(key, target), spec: spec, value: spec.Default}
	t.bindState()
	return t
}

func (t *Toggle) Spec() controlspec.Spec { return t.spec }
func (t *Toggle) Value() (any, bool)     { return t.value, true }

// On reports the current state.
func (t *Toggle) On() bool { return t.value }

// Flip inverts the state and binds it.
func (t *Toggle) Flip() {
	t.value = !t.value
	t.bindState()
}

func (t *Toggle) bindState() {
	if t.value {
		t.bind(1.0)
		return
	}
	t.bind(0.0)
}

func (t *Toggle) InBounds(msg tea.MouseMsg) bool { return hit(t.zoneID, msg) }

func (t *Toggle) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, keys.Panel.Activate) {
			t.Flip()
		}
	case tea.MouseMsg:
		if clicked(t.zoneID, msg) {
			t.Flip()
		}
	}
	return nil
}

func (t *Toggle) View(focused bool, width int) string {
	var sw string
	if t.value {
		sw = lipgloss.NewStyle().Foreground(styles.TrackFillColor).Render("━━●") + " on "
	} else {
		sw = styles.MutedStyle.Render("●──") + " off"
	}
	return zone.Mark(t.zoneID, row(FormatLabel(t.key), sw, width, focused))
}
