package report

import (
	"strconv"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/yakschuss/dialkit-rails/internal/controlspec"
)

// JSON exports the current values as {"section": {"key": value}}, with
// group members nested under their group key. Pretty-printed.
func (r *Report) JSON() (string, error) {
	return r.export(func(l Line) any { return l.Value })
}

// DefaultsJSON is JSON with every value replaced by its default.
func (r *Report) DefaultsJSON() (string, error) {
	return r.export(func(l Line) any { return l.Default })
}

func (r *Report) export(pick func(Line) any) (string, error) {
	doc := "{}"
	seen := map[string]int{}
	for _, s := range r.Sections {
		name := s.Name
		seen[name]++
		if n := seen[name]; n > 1 {
			name += " " + strconv.Itoa(n)
		}
		var err error
		if doc, err = sjson.SetRaw(doc, controlspec.EscapePath(name), "{}"); err != nil {
			return "", err
		}
		for _, l := range s.all {
			raw, err := controlspec.EncodeValue(pick(l))
			if err != nil {
				return "", err
			}
			for i := 1; i < len(l.Path); i++ {
				group := linePath(name, l.Path[:i])
				if gjson.Get(doc, group).Exists() {
					continue
				}
				if doc, err = sjson.SetRaw(doc, group, "{}"); err != nil {
					return "", err
				}
			}
			if doc, err = sjson.SetRaw(doc, linePath(name, l.Path), raw); err != nil {
				return "", err
			}
		}
	}
	return string(pretty.Pretty([]byte(doc))), nil
}

func linePath(section string, path []string) string {
	parts := []string{controlspec.EscapePath(section)}
	for _, p := range path {
		parts = append(parts, controlspec.EscapePath(p))
	}
	return strings.Join(parts, ".")
}

// Patch renders a line diff of the defaults export against the current
// export. It returns "" when nothing changed.
func (r *Report) Patch() (string, error) {
	before, err := r.DefaultsJSON()
	if err != nil {
		return "", err
	}
	after, err := r.JSON()
	if err != nil {
		return "", err
	}
	if before == after {
		return "", nil
	}

	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineArray)

	var out strings.Builder
	out.WriteString("--- defaults\n+++ tuned\n")
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(prefix + line)
			if !strings.HasSuffix(line, "\n") {
				out.WriteString("\n")
			}
		}
	}
	return out.String(), nil
}
