// Package report turns the registered sections into the "tuned values"
// summary a developer pastes back into their styles, plus JSON and diff
// exports of the same values.
package report

import (
	"fmt"
	"strings"

	"github.com/yakschuss/dialkit-rails/internal/control"
	"github.com/yakschuss/dialkit-rails/internal/controlspec"
	"github.com/yakschuss/dialkit-rails/internal/registry"
)

// Header opens every text report.
const Header = "I tuned the following values using DialKit. Update the styles to use these values:"

// Line is one leaf control in a report. Key is dot-qualified for controls
// nested in groups; Path holds the same keys unjoined.
type Line struct {
	Key     string
	Path    []string
	Value   any
	Default any
	Changed bool
}

// String renders the line as it appears under its heading.
func (l Line) String() string {
	if l.Changed {
		return fmt.Sprintf("`%s`: **%s** (was %s)", l.Key, control.FormatBound(l.Value), control.FormatBound(l.Default))
	}
	return fmt.Sprintf("`%s`: %s", l.Key, control.FormatBound(l.Value))
}

// Section groups the lines of one registered element.
type Section struct {
	Name      string
	Changed   []Line
	Unchanged []Line

	// all keeps declaration order for the exports.
	all []Line
}

// Report is a snapshot of every section's values.
type Report struct {
	Sections []Section
}

// Build snapshots sections in registration order.
func Build(sections []*registry.Section) *Report {
	r := &Report{Sections: make([]Section, 0, len(sections))}
	for _, s := range sections {
		sec := Section{Name: s.Name}
		collect(&sec, nil, s.Instances)
		r.Sections = append(r.Sections, sec)
	}
	return r
}

func collect(sec *Section, prefix []string, instances []control.Instance) {
	for _, inst := range instances {
		path := append(append([]string(nil), prefix...), inst.Key())
		if g, ok := inst.(*control.Group); ok {
			collect(sec, path, g.Children())
			continue
		}
		v, ok := inst.Value()
		if !ok {
			continue
		}
		line := Line{Key: strings.Join(path, "."), Path: path, Value: v}
		if d, ok := defaultOf(inst.Spec()); ok {
			line.Default = d
			line.Changed = v != d
		} else {
			line.Default = v
		}
		sec.all = append(sec.all, line)
		if line.Changed {
			sec.Changed = append(sec.Changed, line)
		} else {
			sec.Unchanged = append(sec.Unchanged, line)
		}
	}
}

func defaultOf(spec controlspec.Spec) (any, bool) {
	switch s := spec.(type) {
	case controlspec.Slider:
		return s.Default, true
	case controlspec.Toggle:
		return s.Default, true
	case controlspec.Color:
		return s.Default, true
	case controlspec.Select:
		return s.Default, s.Default != nil
	case controlspec.Text:
		return s.Default, true
	default:
		return nil, false
	}
}

// ChangedCount returns the number of changed lines across all sections.
func (r *Report) ChangedCount() int {
	n := 0
	for _, s := range r.Sections {
		n += len(s.Changed)
	}
	return n
}

// Text renders the markdown summary.
func (r *Report) Text() string {
	lines := []string{Header, ""}
	for _, s := range r.Sections {
		lines = append(lines, "### "+s.Name, "")
		lines = appendBlock(lines, "**Changed from defaults:**", s.Changed)
		lines = appendBlock(lines, "**Kept at defaults:**", s.Unchanged)
	}
	return strings.Join(lines, "\n")
}

func appendBlock(lines []string, title string, items []Line) []string {
	if len(items) == 0 {
		return lines
	}
	lines = append(lines, title)
	for _, l := range items {
		lines = append(lines, "- "+l.String())
	}
	return append(lines, "")
}
