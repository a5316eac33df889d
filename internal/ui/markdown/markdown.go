// Package markdown renders the values report for the panel's preview.
package markdown

import (
	"fmt"
	"regexp"

	"github.com/charmbracelet/glamour"
)

// Glamour style names accepted by New.
const (
	StyleDark  = "dark"
	StyleLight = "light"
	StyleNoTTY = "notty"
)

// noMargin drops the document margin so the preview lines up with the
// panel sections.
const noMargin = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Renderer wraps a glamour renderer and rebuilds it when the wrap width
// changes.
type Renderer struct {
	style    string
	width    int
	renderer *glamour.TermRenderer
}

// New creates a renderer for style at width. An empty style means dark.
// A fixed style path is used instead of auto detection, which would
// query the terminal while the panel owns it.
func New(width int, style string) (*Renderer, error) {
	if style == "" {
		style = StyleDark
	}
	r := &Renderer{style: style}
	if err := r.SetWidth(width); err != nil {
		return nil, err
	}
	return r, nil
}

// Width returns the current wrap width.
func (r *Renderer) Width() int { return r.width }

// SetWidth rebuilds the renderer for a new wrap width.
func (r *Renderer) SetWidth(width int) error {
	if width < 1 {
		width = 1
	}
	if r.renderer != nil && width == r.width {
		return nil
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStylePath(r.style),
		glamour.WithStylesFromJSONBytes([]byte(noMargin)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("creating markdown renderer: %w", err)
	}
	r.renderer = tr
	r.width = width
	return nil
}

// Render transforms markdown to styled terminal output.
func (r *Renderer) Render(md string) (string, error) {
	return r.renderer.Render(md)
}

var ansiSeq = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripANSI removes SGR sequences, for plain-text comparisons.
func StripANSI(s string) string {
	return ansiSeq.ReplaceAllString(s, "")
}
