package registry

import (
	"strings"

	"github.com/yakschuss/dialkit-rails/internal/control"
	"github.com/yakschuss/dialkit-rails/internal/controlspec"
	"github.com/yakschuss/dialkit-rails/internal/dom"
)

// Section is the mounted panel region for one marked element.
type Section struct {
	Name      string
	Element   *dom.Element
	Spec      controlspec.Map
	Instances []control.Instance

	// Collapsed is owned by the panel.
	Collapsed bool
}

// Highlight toggles the highlight class on the target element.
func (s *Section) Highlight(on bool) {
	if on {
		s.Element.AddClass(dom.HighlightClass)
	} else {
		s.Element.RemoveClass(dom.HighlightClass)
	}
}

// Leaves returns the section's instances depth first, groups before their
// children.
func (s *Section) Leaves() []control.Instance {
	var out []control.Instance
	var visit func([]control.Instance)
	visit = func(list []control.Instance) {
		for _, inst := range list {
			out = append(out, inst)
			if g, ok := inst.(*control.Group); ok {
				visit(g.Children())
			}
		}
	}
	visit(s.Instances)
	return out
}

// DisplayName picks the label shown for el: the explicit name attribute,
// then #id, then the first class, then the tag.
func DisplayName(el *dom.Element) string {
	if name, ok := el.Attr(dom.NameAttr); ok && strings.TrimSpace(name) != "" {
		return name
	}
	if id := el.ID(); id != "" {
		return "#" + id
	}
	if classes := el.Classes(); len(classes) > 0 {
		return "." + classes[0]
	}
	return el.TagName()
}
