package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Border characters (rounded)
const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// RenderSection renders a bordered block with the title embedded in the
// top border: ╭─ Title (hint) ───╮. A collapsed section renders only the
// top border line with the corners closed off.
func RenderSection(content []string, title, hint string, width int, focused, collapsed bool) string {
	var borderColor lipgloss.TerminalColor = BorderDefaultColor
	var titleColor lipgloss.TerminalColor = TextSecondaryColor
	if focused {
		borderColor = BorderHighlightFocusColor
		titleColor = BorderHighlightFocusColor
	}

	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(titleColor)
	hintStyle := lipgloss.NewStyle().Foreground(TextMutedColor)

	innerWidth := max(width-2, 1)

	left, right := borderTopLeft, borderTopRight
	if collapsed {
		left, right = borderBottomLeft, borderBottomRight
	}

	var top string
	if title == "" {
		top = borderStyle.Render(left + strings.Repeat(borderHorizontal, innerWidth) + right)
	} else {
		title = TruncateString(title, max(innerWidth-4, 1))
		titleLen := lipgloss.Width(title)
		if hint != "" {
			titleLen = lipgloss.Width(title + " (" + hint + ")")
		}
		dashesAfter := max(innerWidth-titleLen-3, 0)

		top = borderStyle.Render(left+borderHorizontal+" ") + titleStyle.Render(title)
		if hint != "" {
			top += " " + hintStyle.Render("("+hint+")")
		}
		top += borderStyle.Render(" " + strings.Repeat(borderHorizontal, dashesAfter) + right)
	}
	if collapsed {
		return top
	}

	lines := make([]string, 0, len(content)+2)
	lines = append(lines, top)
	for _, row := range content {
		lines = append(lines, borderStyle.Render(borderVertical)+PadRight(row, innerWidth)+borderStyle.Render(borderVertical))
	}
	lines = append(lines, borderStyle.Render(borderBottomLeft+strings.Repeat(borderHorizontal, innerWidth)+borderBottomRight))

	return strings.Join(lines, "\n")
}
