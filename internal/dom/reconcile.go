package dom

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ReconcileFrom parses r and patches d to match it. See Reconcile.
func (d *Document) ReconcileFrom(r io.Reader) error {
	next, err := Parse(r)
	if err != nil {
		return err
	}
	d.Reconcile(next)
	return nil
}

// Reconcile patches d in place so that it renders like next, recording
// every structural change as a mutation. Nodes are kept when their type,
// tag, id and marker payload agree, so unchanged targets keep their
// identity and their live --dk-* style declarations. Nodes that differ
// are replaced by the node from next. next must not be used afterwards.
func (d *Document) Reconcile(next *Document) {
	d.reconcileChildren(d.root, next.root)
}

func (d *Document) reconcileChildren(live, next *html.Node) {
	liveKids := childNodes(live)
	li := 0
	for _, n := range childNodes(next) {
		j := li
		if n.Type == html.ElementNode {
			for j < len(liveKids) && !sameNode(liveKids[j], n) {
				j++
			}
		} else if j < len(liveKids) && !sameNode(liveKids[j], n) {
			// Text and comments only match in place.
			j = len(liveKids)
		}
		if j < len(liveKids) {
			for _, stale := range liveKids[li:j] {
				d.removeNode(stale)
			}
			d.patchNode(liveKids[j], n)
			li = j + 1
			continue
		}
		var ref *html.Node
		if li < len(liveKids) {
			ref = liveKids[li]
		}
		n.Parent.RemoveChild(n)
		d.insertNode(live, n, ref)
	}
	for _, stale := range liveKids[li:] {
		d.removeNode(stale)
	}
}

func (d *Document) patchNode(live, next *html.Node) {
	switch live.Type {
	case html.ElementNode:
		live.Attr = mergeAttrs(live, next)
		d.reconcileChildren(live, next)
	case html.TextNode, html.CommentNode:
		live.Data = next.Data
	case html.DoctypeNode:
		live.Data = next.Data
		live.Attr = next.Attr
	}
}

// mergeAttrs takes next's attributes, carrying over the live --dk-*
// declarations into the style attribute.
func mergeAttrs(live, next *html.Node) []html.Attribute {
	var tuned []Declaration
	for _, decl := range ParseStyle(attr(live, "style")) {
		if strings.HasPrefix(decl.Property, CustomPropertyPrefix) {
			tuned = append(tuned, decl)
		}
	}
	attrs := make([]html.Attribute, 0, len(next.Attr)+1)
	styled := false
	for _, a := range next.Attr {
		if a.Namespace == "" && a.Key == "style" {
			styled = true
			a.Val = FormatStyle(withTuned(ParseStyle(a.Val), tuned))
			if a.Val == "" {
				continue
			}
		}
		attrs = append(attrs, a)
	}
	if !styled && len(tuned) > 0 {
		attrs = append(attrs, html.Attribute{Key: "style", Val: FormatStyle(tuned)})
	}
	return attrs
}

func withTuned(decls, tuned []Declaration) []Declaration {
	out := make([]Declaration, 0, len(decls)+len(tuned))
	for _, decl := range decls {
		if !strings.HasPrefix(decl.Property, CustomPropertyPrefix) {
			out = append(out, decl)
		}
	}
	return append(out, tuned...)
}

func sameNode(a, b *html.Node) bool {
	if a.Type != b.Type {
		return false
	}
	if a.Type != html.ElementNode {
		return true
	}
	return a.Data == b.Data &&
		attr(a, "id") == attr(b, "id") &&
		attr(a, MarkerAttr) == attr(b, MarkerAttr)
}

func childNodes(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}
