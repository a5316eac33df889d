// Package overlay composes floating layers (the panel, its toggle button,
// toasts) on top of a background view without clearing the screen.
package overlay

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Position specifies where to place the overlay content.
type Position int

const (
	// Center places the overlay in the center of the viewport.
	Center Position = iota
	// Top places the overlay at the top center of the viewport.
	Top
	// Bottom places the overlay at the bottom center of the viewport.
	Bottom
	TopLeft
	TopRight
	BottomLeft
	BottomRight
	MiddleLeft
	MiddleRight
	// Absolute places the overlay at X, Y.
	Absolute
)

var positionNames = map[string]Position{
	"top-left":     TopLeft,
	"top-right":    TopRight,
	"bottom-left":  BottomLeft,
	"bottom-right": BottomRight,
	"middle-left":  MiddleLeft,
	"middle-right": MiddleRight,
}

// ParsePosition maps a panel placement name to a Position. Only the six
// panel placements are accepted.
func ParsePosition(name string) (Position, bool) {
	p, ok := positionNames[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// PositionNames lists the accepted placement names, sorted.
func PositionNames() []string {
	names := make([]string, 0, len(positionNames))
	for n := range positionNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Config controls overlay rendering behavior.
type Config struct {
	// Width is the total viewport width.
	Width int
	// Height is the total viewport height.
	Height int
	// Position specifies where to place the overlay.
	Position Position
	// PadX adds horizontal padding from edges (unused for centered positions).
	PadX int
	// PadY adds vertical padding from edges (unused for Center and middle positions).
	PadY int
	// X and Y are the top-left offsets for Absolute.
	X, Y int
}

// Layer is one piece of foreground content and its placement.
type Layer struct {
	Config  Config
	Content string
	Z       int
}

// Compose places layers onto bg in ascending Z order, so the highest Z
// ends up on top. Layers with equal Z keep their given order.
func Compose(bg string, layers ...Layer) string {
	sorted := append([]Layer(nil), layers...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Z < sorted[j].Z })
	for _, l := range sorted {
		if l.Content == "" {
			continue
		}
		bg = Place(l.Config, l.Content, bg)
	}
	return bg
}

// Place renders foreground content on top of background.
// Uses ANSI-aware string manipulation to preserve styling in both
// the foreground and background content.
func Place(cfg Config, fg, bg string) string {
	fgLines := strings.Split(fg, "\n")
	bgLines := strings.Split(bg, "\n")

	// Pad background to full height
	for len(bgLines) < cfg.Height {
		bgLines = append(bgLines, strings.Repeat(" ", cfg.Width))
	}

	startX, startY := Origin(cfg, lipgloss.Width(fg), len(fgLines))

	for i, fgLine := range fgLines {
		bgY := startY + i
		if bgY >= len(bgLines) {
			break
		}

		bgLine := bgLines[bgY]
		leftPart := ansi.Truncate(bgLine, startX, "")
		if w := ansi.StringWidth(leftPart); w < startX {
			leftPart += strings.Repeat(" ", startX-w)
		}

		var rightPart string
		endX := startX + ansi.StringWidth(fgLine)
		if endX < ansi.StringWidth(bgLine) {
			rightPart = ansi.TruncateLeft(bgLine, endX, "")
		}

		bgLines[bgY] = leftPart + fgLine + rightPart
	}

	return strings.Join(bgLines, "\n")
}

// Origin returns the top-left cell where content of the given size is
// placed under cfg. The result is clamped to the viewport where possible.
func Origin(cfg Config, fgWidth, fgHeight int) (x, y int) {
	left := cfg.PadX
	right := cfg.Width - fgWidth - cfg.PadX
	top := cfg.PadY
	bottom := cfg.Height - fgHeight - cfg.PadY
	midX := (cfg.Width - fgWidth) / 2
	midY := (cfg.Height - fgHeight) / 2

	switch cfg.Position {
	case Top:
		x, y = midX, top
	case Bottom:
		x, y = midX, bottom
	case TopLeft:
		x, y = left, top
	case TopRight:
		x, y = right, top
	case BottomLeft:
		x, y = left, bottom
	case BottomRight:
		x, y = right, bottom
	case MiddleLeft:
		x, y = left, midY
	case MiddleRight:
		x, y = right, midY
	case Absolute:
		x = min(cfg.X, cfg.Width-fgWidth)
		y = min(cfg.Y, cfg.Height-fgHeight)
	default: // Center
		x, y = midX, midY
	}

	return max(x, 0), max(y, 0)
}
