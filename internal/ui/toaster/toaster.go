// Package toaster provides the notification toast shown for fired
// actions and clipboard results.
package toaster

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/yakschuss/dialkit-rails/internal/ui/overlay"
	"github.com/yakschuss/dialkit-rails/internal/ui/styles"
)

// Style determines the visual appearance of the toast.
type Style int

const (
	// StyleSuccess shows ✅ with green border.
	StyleSuccess Style = iota
	// StyleError shows ❌ with red border.
	StyleError
	// StyleInfo shows ℹ️ with blue border for informational messages.
	StyleInfo
	// StyleWarn shows ⚠️ with yellow border for warnings.
	StyleWarn
)

// maxTextWidth is where long messages wrap.
const maxTextWidth = 40

// Model holds the toaster state.
type Model struct {
	message string
	style   Style
	visible bool
	seq     int
}

// New creates a new toaster model.
func New() Model {
	return Model{}
}

// Show displays a toast with the given message and style. Each call
// starts a new generation so a pending dismissal of an older toast is
// ignored.
func (m Model) Show(message string, style Style) Model {
	m.message = message
	m.style = style
	m.visible = true
	m.seq++
	return m
}

// Hide dismisses the toast.
func (m Model) Hide() Model {
	m.visible = false
	m.message = ""
	return m
}

// Visible returns whether the toast is currently showing.
func (m Model) Visible() bool {
	return m.visible
}

// View renders the toast box.
func (m Model) View() string {
	if !m.visible || m.message == "" {
		return ""
	}

	style := lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder())

	var icon string
	switch m.style {
	case StyleError:
		style = style.BorderForeground(styles.ToastBorderErrorColor)
		icon = "❌ "
	case StyleInfo:
		style = style.BorderForeground(styles.ToastBorderInfoColor)
		icon = "ℹ️ "
	case StyleWarn:
		style = style.BorderForeground(styles.ToastBorderWarnColor)
		icon = "⚠️ "
	default: // StyleSuccess
		style = style.BorderForeground(styles.ToastBorderSuccessColor)
		icon = "✅ "
	}

	return style.Render(wordwrap.String(icon+m.message, maxTextWidth))
}

// Layer returns the toast as an overlay layer at the bottom center of a
// width×height viewport.
func (m Model) Layer(width, height, z int) overlay.Layer {
	return overlay.Layer{
		Config: overlay.Config{
			Width:    width,
			Height:   height,
			Position: overlay.Bottom,
			PadY:     1,
		},
		Content: m.View(),
		Z:       z,
	}
}

// Update hides the toast when its own DismissMsg arrives.
func (m Model) Update(msg tea.Msg) Model {
	if d, ok := msg.(DismissMsg); ok && d.Seq == m.seq {
		return m.Hide()
	}
	return m
}

// DismissMsg signals that the toast of generation Seq should be dismissed.
type DismissMsg struct {
	Seq int
}

// ScheduleDismiss returns a command that dismisses the current toast
// after a duration.
func (m Model) ScheduleDismiss(d time.Duration) tea.Cmd {
	seq := m.seq
	return tea.Tick(d, func(_ time.Time) tea.Msg {
		return DismissMsg{Seq: seq}
	})
}
