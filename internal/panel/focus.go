package panel

import (
	"fmt"

	"github.com/yakschuss/dialkit-rails/internal/control"
	"github.com/yakschuss/dialkit-rails/internal/registry"
)

// item is one focusable row: a section header when inst is nil,
// otherwise a control.
type item struct {
	section *registry.Section
	inst    control.Instance
}

func (it item) id() string {
	if it.inst != nil {
		return it.inst.ZoneID()
	}
	return headZone(it.section)
}

func headZone(s *registry.Section) string  { return fmt.Sprintf("dk-section:%p:head", s) }
func blockZone(s *registry.Section) string { return fmt.Sprintf("dk-section:%p", s) }

// items lists the visible rows in panel order. Children of collapsed
// sections and groups are left out.
func items(sections []*registry.Section) []item {
	var out []item
	for _, s := range sections {
		out = append(out, item{section: s})
		if s.Collapsed {
			continue
		}
		var visit func([]control.Instance)
		visit = func(list []control.Instance) {
			for _, inst := range list {
				out = append(out, item{section: s, inst: inst})
				if g, ok := inst.(*control.Group); ok && !g.Collapsed() {
					visit(g.Children())
				}
			}
		}
		visit(s.Instances)
	}
	return out
}

func (m Model) items() []item { return items(m.reg.Sections()) }

// focused returns the focused row. A focus id that no longer resolves
// falls back to the first row.
func (m Model) focused() (item, bool) {
	list := m.items()
	if len(list) == 0 {
		return item{}, false
	}
	for _, it := range list {
		if it.id() == m.focusID {
			return it, true
		}
	}
	return list[0], true
}

func (m Model) moveFocus(delta int) Model {
	list := m.items()
	if len(list) == 0 {
		return m
	}
	cur := 0
	for i, it := range list {
		if it.id() == m.focusID {
			cur = i
			break
		}
	}
	next := (cur + delta + len(list)) % len(list)
	m.focusID = list[next].id()
	return m.syncHighlight(nil)
}

// syncHighlight highlights the hovered section, or the focused one when
// nothing is hovered. A hidden panel highlights nothing.
func (m Model) syncHighlight(hover *registry.Section) Model {
	target := hover
	if target == nil && m.visible {
		if it, ok := m.focused(); ok {
			target = it.section
		}
	}
	if !m.visible {
		target = nil
	}
	m.mounts.highlight(target)
	return m
}

// editor returns the focused control while it captures keys.
func (m Model) editor() (control.Editor, item, bool) {
	it, ok := m.focused()
	if !ok || it.inst == nil {
		return nil, it, false
	}
	ed, ok := it.inst.(control.Editor)
	if !ok || !ed.Editing() {
		return nil, it, false
	}
	return ed, it, true
}
