// Package dom is the in-memory document the panel tunes. It wraps a
// golang.org/x/net/html tree with stable element identities, inline style
// access, bubbling events and batched structural mutation records.
//
// Mutations are queued as they happen and delivered to observers only when
// Flush is called, so observers always see the settled tree of a batch.
package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Attributes, classes and event types shared by the registry, the
// controls and the panel.
const (
	MarkerAttr           = "data-dial-kit"
	NameAttr             = "data-dial-kit-name"
	CustomPropertyPrefix = "--dk-"
	ActionEventType      = "dial-kit:action"
	HighlightClass       = "dk-highlight"
)

// MutationRecord describes one structural change: nodes added to or
// removed from Target's children. Only element nodes are reported.
type MutationRecord struct {
	Target  *Element
	Added   []*Element
	Removed []*Element
}

// Document owns an HTML tree and the Element wrappers of its nodes.
type Document struct {
	root      *html.Node
	elements  map[*html.Node]*Element
	pending   []MutationRecord
	observers map[int]func([]MutationRecord)
	nextObs   int
}

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	return newDocument(root), nil
}

// ParseString parses an HTML document held in memory.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

func newDocument(root *html.Node) *Document {
	return &Document{
		root:      root,
		elements:  make(map[*html.Node]*Element),
		observers: make(map[int]func([]MutationRecord)),
	}
}

// Root returns the <html> element.
func (d *Document) Root() *Element {
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return d.wrap(c)
		}
	}
	return nil
}

// Body returns the <body> element, or the root element if there is none.
func (d *Document) Body() *Element {
	if root := d.Root(); root != nil {
		for _, c := range root.Children() {
			if c.TagName() == "body" {
				return c
			}
		}
		return root
	}
	return nil
}

// GetElementByID returns the first element whose id is id.
func (d *Document) GetElementByID(id string) *Element {
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && attr(n, "id") == id {
			found = n
			return false
		}
		return true
	})
	return d.wrap(found)
}

// QueryAll returns every element in the document matching selector, in
// document order.
func (d *Document) QueryAll(selector string) ([]*Element, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("compiling selector %q: %w", selector, err)
	}
	return d.wrapAll(sel.MatchAll(d.root)), nil
}

// CreateElement returns a detached element with the given tag.
func (d *Document) CreateElement(tag string) *Element {
	return d.wrap(&html.Node{Type: html.ElementNode, Data: strings.ToLower(tag)})
}

// Fragment parses markup in the context of <body> and returns the
// detached top-level elements.
func (d *Document) Fragment(markup string) ([]*Element, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return nil, fmt.Errorf("parsing fragment: %w", err)
	}
	var out []*Element
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			out = append(out, d.wrap(n))
		}
	}
	return out, nil
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// String renders the document, ignoring write errors.
func (d *Document) String() string {
	var buf bytes.Buffer
	_ = d.Render(&buf)
	return buf.String()
}

// Observe registers fn to receive mutation batches on Flush. The returned
// function stops delivery.
func (d *Document) Observe(fn func([]MutationRecord)) (stop func()) {
	id := d.nextObs
	d.nextObs++
	d.observers[id] = fn
	return func() { delete(d.observers, id) }
}

// Pending reports how many mutation records await delivery.
func (d *Document) Pending() int {
	return len(d.pending)
}

// Flush delivers the queued records as one batch to every observer. It is
// the checkpoint at which observers see a settled tree. Observers are
// called in registration order.
func (d *Document) Flush() {
	if len(d.pending) == 0 {
		return
	}
	batch := d.pending
	d.pending = nil
	for id := 0; id < d.nextObs; id++ {
		if fn, ok := d.observers[id]; ok {
			fn(batch)
		}
	}
}

func (d *Document) record(rec MutationRecord) {
	if len(rec.Added) == 0 && len(rec.Removed) == 0 {
		return
	}
	d.pending = append(d.pending, rec)
}

func (d *Document) wrap(n *html.Node) *Element {
	if n == nil {
		return nil
	}
	if el, ok := d.elements[n]; ok {
		return el
	}
	el := &Element{doc: d, node: n}
	d.elements[n] = el
	return el
}

func (d *Document) wrapAll(nodes []*html.Node) []*Element {
	out := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, d.wrap(n))
	}
	return out
}
