// Package logoverlay shows the panel's own log entries in a scrollable
// box while running with --debug.
package logoverlay

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/yakschuss/dialkit-rails/internal/log"
	"github.com/yakschuss/dialkit-rails/internal/ui/overlay"
	"github.com/yakschuss/dialkit-rails/internal/ui/styles"
)

const (
	viewportMaxHeight = 20
	viewportMinHeight = 5
	boxMaxWidth       = 120
	boxMinWidth       = 40

	// MaxEntries bounds the in-memory buffer; older entries are dropped.
	MaxEntries = 500
)

// CloseMsg is sent when the overlay closes itself.
type CloseMsg struct{}

// Model holds the buffered entries and the scroll state.
type Model struct {
	visible  bool
	minLevel log.Level
	entries  []string
	width    int
	height   int
	viewport viewport.Model
}

// New creates a hidden overlay showing every level.
func New() Model {
	return Model{minLevel: log.LevelDebug}
}

// Append buffers one formatted entry.
func (m *Model) Append(entry string) {
	m.entries = append(m.entries, strings.TrimSuffix(entry, "\n"))
	if over := len(m.entries) - MaxEntries; over > 0 {
		m.entries = append(m.entries[:0:0], m.entries[over:]...)
	}
	if m.visible {
		m.refresh()
		m.viewport.GotoBottom()
	}
}

// Len returns the number of buffered entries.
func (m Model) Len() int { return len(m.entries) }

// Update handles keys while visible.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "c":
			m.entries = nil
			m.refresh()
		case "d":
			m.setLevel(log.LevelDebug)
		case "i":
			m.setLevel(log.LevelInfo)
		case "w":
			m.setLevel(log.LevelWarn)
		case "e":
			m.setLevel(log.LevelError)
		case "j", "down":
			m.viewport.ScrollDown(1)
		case "k", "up":
			m.viewport.ScrollUp(1)
		case "g":
			m.viewport.GotoTop()
		case "G":
			m.viewport.GotoBottom()
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+l", "esc":
			m.visible = false
			return m, func() tea.Msg { return CloseMsg{} }
		}

	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	}

	return m, nil
}

func (m *Model) setLevel(l log.Level) {
	m.minLevel = l
	m.refresh()
}

// View renders the box, or "" while hidden.
func (m Model) View() string {
	if !m.visible {
		return ""
	}

	boxWidth := m.boxWidth()
	divider := lipgloss.NewStyle().Foreground(styles.BorderDefaultColor).Render(strings.Repeat("─", boxWidth))
	header := styles.TitleStyle.PaddingLeft(1).Render("Logs")

	body := strings.Join([]string{header, divider, m.viewport.View(), divider, m.filterHint()}, "\n")
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.BorderDefaultColor).
		Width(boxWidth).
		Render(body)
}

// Layer returns the overlay centered in the viewport at z.
func (m Model) Layer(z int) overlay.Layer {
	return overlay.Layer{
		Config:  overlay.Config{Width: m.width, Height: m.height, Position: overlay.Center},
		Content: m.View(),
		Z:       z,
	}
}

// Visible reports whether the overlay is showing.
func (m Model) Visible() bool { return m.visible }

// Toggle flips visibility.
func (m *Model) Toggle() {
	m.visible = !m.visible
	if m.visible {
		m.refresh()
		m.viewport.GotoBottom()
	}
}

// SetSize records the viewport size.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.refresh()
}

func (m Model) boxWidth() int {
	return max(min(m.width-4, boxMaxWidth), boxMinWidth)
}

func (m *Model) refresh() {
	if m.width == 0 || m.height == 0 {
		return
	}
	contentWidth := m.boxWidth() - 2
	// header, footer and borders take six lines
	height := max(min(viewportMaxHeight, m.height-6), viewportMinHeight)

	m.viewport = viewport.New(contentWidth, height)
	m.viewport.SetContent(m.content(contentWidth))
}

func (m Model) content(width int) string {
	var lines []string
	for _, entry := range m.entries {
		if levelOf(entry) >= m.minLevel {
			lines = append(lines, colorize(entry, width))
		}
	}
	if len(lines) == 0 {
		return styles.MutedStyle.Italic(true).Render("No logs to display")
	}
	return strings.Join(lines, "\n")
}

// levelOf reads the [LEVEL] tag of a formatted entry. Untagged entries
// count as errors so they are never filtered out.
func levelOf(entry string) log.Level {
	for _, l := range []log.Level{log.LevelError, log.LevelWarn, log.LevelInfo, log.LevelDebug} {
		if strings.Contains(entry, "["+l.String()+"]") {
			return l
		}
	}
	return log.LevelError
}

func colorize(entry string, width int) string {
	if ansi.StringWidth(entry) > width {
		entry = ansi.Truncate(entry, width-3, "...")
	}
	var color lipgloss.TerminalColor
	switch levelOf(entry) {
	case log.LevelError:
		color = styles.StatusErrorColor
	case log.LevelWarn:
		color = styles.StatusWarningColor
	case log.LevelInfo:
		color = styles.ToastBorderInfoColor
	default:
		color = styles.TextMutedColor
	}
	return lipgloss.NewStyle().Foreground(color).Render(entry)
}

func (m Model) filterHint() string {
	hint := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	active := lipgloss.NewStyle().Foreground(styles.TextPrimaryColor).Bold(true)

	parts := []string{hint.Render("[c] Clear")}
	for _, f := range []struct {
		label string
		level log.Level
	}{
		{"[d] Debug", log.LevelDebug},
		{"[i] Info", log.LevelInfo},
		{"[w] Warn", log.LevelWarn},
		{"[e] Error", log.LevelError},
	} {
		if m.minLevel == f.level {
			parts = append(parts, active.Render(f.label))
		} else {
			parts = append(parts, hint.Render(f.label))
		}
	}
	return strings.Join(parts, "  ")
}
