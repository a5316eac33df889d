package dom

import "strings"

// Declaration is one property: value pair of an inline style.
type Declaration struct {
	Property string
	Value    string
}

// ParseStyle splits an inline style attribute into declarations, keeping
// their order. Semicolons inside parentheses or quotes, or escaped with a
// backslash, do not split. Values keep their escapes. Declarations without
// a colon or with an empty property are dropped.
func ParseStyle(style string) []Declaration {
	var (
		out     []Declaration
		depth   int
		quote   rune
		start   int
		escaped bool
	)
	emit := func(end int) {
		if d, ok := parseDeclaration(style[start:end]); ok {
			out = append(out, d)
		}
		start = end + 1
	}
	for i, r := range style {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '(':
			depth++
		case r == ')' && depth > 0:
			depth--
		case r == ';' && depth == 0:
			emit(i)
		}
	}
	if start < len(style) {
		emit(len(style))
	}
	return out
}

func parseDeclaration(s string) (Declaration, bool) {
	prop, value, ok := strings.Cut(s, ":")
	if !ok {
		return Declaration{}, false
	}
	prop = strings.TrimSpace(prop)
	if prop == "" {
		return Declaration{}, false
	}
	// Custom properties are case-sensitive; standard ones are not.
	if !strings.HasPrefix(prop, "--") {
		prop = strings.ToLower(prop)
	}
	return Declaration{Property: prop, Value: strings.TrimSpace(value)}, true
}

// FormatStyle serializes declarations as "a: b; c: d;".
func FormatStyle(decls []Declaration) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		parts = append(parts, d.Property+": "+d.Value+";")
	}
	return strings.Join(parts, " ")
}

const styleSpecials = `\'";()`

// EscapeValue backslash-escapes the characters that would end a
// declaration or open a string or function in an inline style.
func EscapeValue(v string) string {
	if !strings.ContainsAny(v, styleSpecials) {
		return v
	}
	var b strings.Builder
	for _, r := range v {
		if strings.ContainsRune(styleSpecials, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// UnescapeValue reverses EscapeValue. A trailing lone backslash is kept.
func UnescapeValue(v string) string {
	if !strings.Contains(v, `\`) {
		return v
	}
	var b strings.Builder
	escaped := false
	for _, r := range v {
		if !escaped && r == '\\' {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(r)
	}
	if escaped {
		b.WriteByte('\\')
	}
	return b.String()
}

// Style returns the element's inline style declarations. Values are the
// raw attribute text, escapes included.
func (e *Element) Style() []Declaration {
	return ParseStyle(attr(e.node, "style"))
}

// Property returns the unescaped value of an inline style property.
func (e *Element) Property(name string) (string, bool) {
	decls := e.Style()
	for i := len(decls) - 1; i >= 0; i-- {
		if decls[i].Property == name {
			return UnescapeValue(decls[i].Value), true
		}
	}
	return "", false
}

// SetProperty writes an inline style property, replacing an existing
// declaration in place or appending a new one. value is plain text and is
// escaped on write.
func (e *Element) SetProperty(name, value string) {
	value = EscapeValue(value)
	decls := e.Style()
	replaced := false
	kept := decls[:0]
	for _, d := range decls {
		if d.Property == name {
			if replaced {
				continue
			}
			d.Value = value
			replaced = true
		}
		kept = append(kept, d)
	}
	if !replaced {
		kept = append(kept, Declaration{Property: name, Value: value})
	}
	e.SetAttr("style", FormatStyle(kept))
}

// RemoveProperty deletes an inline style property. The style attribute is
// removed when no declarations remain.
func (e *Element) RemoveProperty(name string) {
	decls := e.Style()
	kept := decls[:0]
	for _, d := range decls {
		if d.Property != name {
			kept = append(kept, d)
		}
	}
	if len(kept) == 0 {
		e.RemoveAttr("style")
		return
	}
	e.SetAttr("style", FormatStyle(kept))
}
