package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// TruncateString truncates a string to fit within maxWidth, adding ellipsis
// if needed. Cuts fall on grapheme cluster boundaries, so wide and combined
// characters are never split.
func TruncateString(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}

	if lipgloss.Width(s) <= maxWidth {
		return s
	}

	if maxWidth <= 3 {
		return strings.Repeat(".", maxWidth)
	}

	var b strings.Builder
	used, state := 0, -1
	for len(s) > 0 {
		var cluster string
		cluster, s, _, state = uniseg.StepString(s, state)
		w := runewidth.StringWidth(cluster)
		if used+w > maxWidth-3 {
			break
		}
		b.WriteString(cluster)
		used += w
	}

	return b.String() + "..."
}

// PadRight pads s with spaces to width cells.
func PadRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
