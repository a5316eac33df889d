package dom

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Element is a stable handle for one node of a Document. The same node
// always yields the same *Element, so handles can key maps.
type Element struct {
	doc       *Document
	node      *html.Node
	listeners map[string][]*listener
}

// Node exposes the underlying html node.
func (e *Element) Node() *html.Node { return e.node }

// Document returns the owning document.
func (e *Element) Document() *Document { return e.doc }

// TagName returns the lower-case tag name.
func (e *Element) TagName() string { return strings.ToLower(e.node.Data) }

// Attr returns the value of attribute name.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// HasAttr reports whether attribute name is present.
func (e *Element) HasAttr(name string) bool {
	_, ok := e.Attr(name)
	return ok
}

// SetAttr sets attribute name, keeping its position if it already exists.
func (e *Element) SetAttr(name, value string) {
	for i, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

// RemoveAttr deletes attribute name.
func (e *Element) RemoveAttr(name string) {
	attrs := e.node.Attr[:0]
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			continue
		}
		attrs = append(attrs, a)
	}
	e.node.Attr = attrs
}

// ID returns the id attribute.
func (e *Element) ID() string { return attr(e.node, "id") }

// Classes returns the class list in source order.
func (e *Element) Classes() []string {
	return strings.Fields(attr(e.node, "class"))
}

// HasClass reports whether class is in the class list.
func (e *Element) HasClass(class string) bool {
	for _, c := range e.Classes() {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass appends class unless present.
func (e *Element) AddClass(class string) {
	if e.HasClass(class) {
		return
	}
	e.SetAttr("class", strings.Join(append(e.Classes(), class), " "))
}

// RemoveClass removes class, dropping the attribute when it empties.
func (e *Element) RemoveClass(class string) {
	if !e.HasClass(class) {
		return
	}
	var kept []string
	for _, c := range e.Classes() {
		if c != class {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		e.RemoveAttr("class")
		return
	}
	e.SetAttr("class", strings.Join(kept, " "))
}

// Parent returns the parent element, or nil at the top or when detached.
func (e *Element) Parent() *Element {
	p := e.node.Parent
	if p == nil || p.Type != html.ElementNode {
		return nil
	}
	return e.doc.wrap(p)
}

// Children returns the element children in order.
func (e *Element) Children() []*Element {
	var out []*Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, e.doc.wrap(c))
		}
	}
	return out
}

// Text returns the concatenated text content.
func (e *Element) Text() string {
	var b strings.Builder
	walk(e.node, func(n *html.Node) bool {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		return true
	})
	return b.String()
}

// IsConnected reports whether the element is attached to its document.
func (e *Element) IsConnected() bool {
	for n := e.node; n != nil; n = n.Parent {
		if n == e.doc.root {
			return true
		}
	}
	return false
}

// Contains reports whether other is e or one of its descendants.
func (e *Element) Contains(other *Element) bool {
	for n := other.node; n != nil; n = n.Parent {
		if n == e.node {
			return true
		}
	}
	return false
}

// QueryAll returns e and every descendant matching selector, in
// document order.
func (e *Element) QueryAll(selector string) ([]*Element, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, err
	}
	return e.doc.wrapAll(sel.MatchAll(e.node)), nil
}

// Descendants is QueryAll without e itself.
func (e *Element) Descendants(selector string) ([]*Element, error) {
	all, err := e.QueryAll(selector)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, el := range all {
		if el != e {
			out = append(out, el)
		}
	}
	return out, nil
}

// AppendChild moves child to the end of e's children and records the
// removal from its old parent and the insertion.
func (e *Element) AppendChild(child *Element) {
	e.InsertBefore(child, nil)
}

// InsertBefore moves child before ref (or to the end when ref is nil).
func (e *Element) InsertBefore(child, ref *Element) {
	var refNode *html.Node
	if ref != nil {
		refNode = ref.node
	}
	e.doc.insertNode(e.node, child.node, refNode)
}

// Remove detaches e from its parent and records the removal.
func (e *Element) Remove() {
	e.doc.removeNode(e.node)
}

// SetInnerHTML replaces the children of e with parsed markup.
func (e *Element) SetInnerHTML(markup string) error {
	nodes, err := html.ParseFragment(strings.NewReader(markup), e.node)
	if err != nil {
		return err
	}
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.doc.removeNode(c)
		c = next
	}
	for _, n := range nodes {
		e.doc.insertNode(e.node, n, nil)
	}
	return nil
}

func (d *Document) insertNode(parent, child, ref *html.Node) {
	if child.Parent != nil {
		d.removeNode(child)
	}
	parent.InsertBefore(child, ref)
	if child.Type == html.ElementNode {
		d.record(MutationRecord{Target: d.wrap(parent), Added: []*Element{d.wrap(child)}})
	}
}

func (d *Document) removeNode(n *html.Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	parent.RemoveChild(n)
	if n.Type == html.ElementNode {
		d.record(MutationRecord{Target: d.wrap(parent), Removed: []*Element{d.wrap(n)}})
	}
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val
		}
	}
	return ""
}

// walk visits n and its descendants depth-first until fn returns false.
func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}
