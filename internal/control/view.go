package control

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yakschuss/dialkit-rails/internal/ui/styles"
)

// indicator is the focus marker drawn before a control's first line.
func indicator(focused bool) string {
	if focused {
		return styles.SelectionIndicatorStyle.Render(">") + " "
	}
	return "  "
}

// row lays out "> label ....... value" across width cells.
func row(label, value string, width int, focused bool) string {
	labelStyle := styles.LabelStyle
	if focused {
		labelStyle = styles.LabelFocusedStyle
	}
	prefix := indicator(focused)
	valueWidth := lipgloss.Width(value)
	room := max(width-lipgloss.Width(prefix)-valueWidth-1, 1)
	left := labelStyle.Render(styles.TruncateString(label, room))
	gap := max(width-lipgloss.Width(prefix)-lipgloss.Width(left)-valueWidth, 1)
	return prefix + left + strings.Repeat(" ", gap) + value
}

// inner is the usable width under the indicator.
func inner(width int) int {
	return max(width-2, 4)
}
