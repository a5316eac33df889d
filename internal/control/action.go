package control

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/yakschuss/dialkit-rails/internal/controlspec"
	"github.com/yakschuss/dialkit-rails/internal/keys"
	"github.com/yakschuss/dialkit-rails/internal/log"
	"github.com/yakschuss/dialkit-rails/internal/ui/styles"
)

// Action is a stateless button that notifies its target when pressed.
type Action struct {
	base
	spec controlspec.Action
}

// NewAction creates an action button. Nothing is bound.
func NewAction(key string, spec controlspec.Action, target Target) *Action {
	return &Action{base: newBase(key, target), spec: spec}
}

func (a *Action) Spec() controlspec.Spec { return a.spec }

// Value is always absent.
func (a *Action) Value() (any, bool) { return nil, false }

// Label is the button text: the spec label or the formatted key.
func (a *Action) Label() string {
	if a.spec.Label != "" {
		return a.spec.Label
	}
	return FormatLabel(a.key)
}

// Fire notifies the target with the control key.
func (a *Action) Fire() {
	log.Debug(log.CatControl, "action fired", "key", a.key)
	a.target.Notify(a.key)
}

func (a *Action) InBounds(msg tea.MouseMsg) bool { return hit(a.zoneID, msg) }

func (a *Action) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, keys.Panel.Activate) {
			a.Fire()
		}
	case tea.MouseMsg:
		if clicked(a.zoneID, msg) {
			a.Fire()
		}
	}
	return nil
}

func (a *Action) View(focused bool, width int) string {
	btn := styles.Button(styles.TruncateString(a.Label(), max(width-6, 1)), false, focused)
	return indicator(focused) + zone.Mark(a.zoneID, btn)
}
