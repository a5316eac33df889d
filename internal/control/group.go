package control

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/yakschuss/dialkit-rails/internal/controlspec"
	"github.com/yakschuss/dialkit-rails/internal/keys"
	"github.com/yakschuss/dialkit-rails/internal/ui/styles"
)

// Group nests child controls under a collapsible header. It is never
// bound itself; its children bind under their own keys.
type Group struct {
	base
	spec      controlspec.Group
	children  []Instance
	collapsed bool
}

// NewGroup builds every child in declaration order.
func NewGroup(key string, spec controlspec.Group, target Target) (*Group, error) {
	children, err := BuildAll(spec.Controls, target)
	if err != nil {
		return nil, err
	}
	return &Group{base: newBase(key, target), spec: spec, children: children}, nil
}

func (g *Group) Spec() controlspec.Spec { return g.spec }

// Value is the ordered child key → value mapping. Children without a
// value (actions) are left out.
func (g *Group) Value() (any, bool) {
	vals := controlspec.Fields{}
	for _, c := range g.children {
		if v, ok := c.Value(); ok {
			vals = append(vals, controlspec.Field{Key: c.Key(), Value: v})
		}
	}
	return vals, true
}

// Children returns the child instances in declaration order.
func (g *Group) Children() []Instance { return g.children }

// Collapsed reports whether the children are hidden.
func (g *Group) Collapsed() bool { return g.collapsed }

// SetCollapsed shows or hides the children.
func (g *Group) SetCollapsed(c bool) { g.collapsed = c }

func (g *Group) InBounds(msg tea.MouseMsg) bool { return hit(g.zoneID, msg) }

// Update handles the header only; the panel routes messages to children
// directly.
func (g *Group) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, keys.Panel.Activate) {
			g.collapsed = !g.collapsed
		}
	case tea.MouseMsg:
		if clicked(g.zoneID, msg) {
			g.collapsed = !g.collapsed
		}
	}
	return nil
}

// View renders the header line. Children are rendered by the caller,
// indented under it, unless the group is collapsed.
func (g *Group) View(focused bool, width int) string {
	chevron := "▾"
	if g.collapsed {
		chevron = "▸"
	}
	hint := styles.MutedStyle.Render(strconv.Itoa(len(g.children)))
	return zone.Mark(g.zoneID, row(chevron+" "+FormatLabel(g.key), hint, width, focused))
}
