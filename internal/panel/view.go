package panel

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/wordwrap"

	"github.com/yakschuss/dialkit-rails/internal/control"
	"github.com/yakschuss/dialkit-rails/internal/dom"
	"github.com/yakschuss/dialkit-rails/internal/keys"
	"github.com/yakschuss/dialkit-rails/internal/log"
	"github.com/yakschuss/dialkit-rails/internal/registry"
	"github.com/yakschuss/dialkit-rails/internal/ui/markdown"
	"github.com/yakschuss/dialkit-rails/internal/ui/overlay"
	"github.com/yakschuss/dialkit-rails/internal/ui/styles"
)

const (
	defaultWidth  = 80
	defaultHeight = 24

	// frame is the border plus horizontal padding of styles.PanelStyle.
	frame = 4
)

// previewCache keeps the last rendered report so View does not run
// glamour on every frame.
type previewCache struct {
	renderer *markdown.Renderer
	src      string
	out      string
}

func newPreviewCache(style string) (*previewCache, error) {
	r, err := markdown.New(Width-frame, style)
	if err != nil {
		return nil, err
	}
	return &previewCache{renderer: r}, nil
}

func (p *previewCache) render(src string) string {
	if src == p.src && p.out != "" {
		return p.out
	}
	out, err := p.renderer.Render(src)
	if err != nil {
		log.WarnErr(log.CatUI, "preview render failed", err)
		out = src
	}
	p.src, p.out = src, strings.TrimRight(out, "\n")
	return p.out
}

// View implements tea.Model. Layers stack by z: the page at 0, the toggle
// button at zIndex-1, the panel at zIndex, then the toast and the log
// overlay.
func (m Model) View() string {
	w, h := m.size()
	layers := make([]overlay.Layer, 0, 3)
	if m.visible {
		layers = append(layers, overlay.Layer{Config: m.placement(), Content: m.panelView(), Z: m.boot.ZIndex})
	} else {
		layers = append(layers, overlay.Layer{Config: m.toggleConfig(), Content: m.toggleView(), Z: m.boot.ZIndex - 1})
	}
	if m.toaster.Visible() {
		layers = append(layers, m.toaster.Layer(w, h, m.boot.ZIndex+1))
	}
	if m.debug && m.logs.Visible() {
		layers = append(layers, m.logs.Layer(m.boot.ZIndex+2))
	}
	return zone.Scan(overlay.Compose(m.pageView(w, h), layers...))
}

func (m Model) size() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

func (m Model) placement() overlay.Config {
	w, h := m.size()
	return overlay.Config{Width: w, Height: h, Position: m.position, PadX: 2, PadY: 1, X: m.x, Y: m.y}
}

// toggleConfig places the toggle button in the boot corner even after the
// panel was dragged.
func (m Model) toggleConfig() overlay.Config {
	cfg := m.placement()
	cfg.Position = m.boot.Position
	return cfg
}

// origin is the panel's current top-left cell.
func (m Model) origin() (int, int) {
	view := m.panelView()
	return overlay.Origin(m.placement(), lipgloss.Width(view), lipgloss.Height(view))
}

func (m Model) toggleView() string {
	label := "⚙ " + Title
	if m.boot.ShortcutText != "" {
		label += " (" + m.boot.ShortcutText + ")"
	}
	return zone.Mark(zoneToggle, styles.Button(label, true, false))
}

func (m Model) panelView() string {
	inner := Width - frame
	focus, _ := m.focused()

	rows := []string{m.headerView(inner), m.toolbarView(), ""}
	switch {
	case m.previewing:
		rows = append(rows, m.preview.render(m.Report().Text()))
	case m.mounts.empty:
		rows = append(rows, styles.MutedStyle.Render(wordwrap.String(EmptyText+"\n"+EmptyHint, inner)))
	default:
		for _, s := range m.reg.Sections() {
			rows = append(rows, sectionView(s, focus, inner))
		}
	}
	rows = append(rows, "", m.help.View(keys.Panel))

	return styles.PanelStyle.Width(Width - 2).Render(strings.Join(rows, "\n"))
}

func (m Model) headerView(width int) string {
	title := styles.TitleStyle.Render(Title)
	closeBtn := zone.Mark(zoneClose, styles.MutedStyle.Render("×"))
	gap := max(width-lipgloss.Width(title)-lipgloss.Width(closeBtn), 1)
	return zone.Mark(zoneHeader, title+strings.Repeat(" ", gap)+closeBtn)
}

func (m Model) toolbarView() string {
	label := CopyLabel
	if m.copied {
		label = CopiedLabel
	}
	copyBtn := zone.Mark(zoneCopy, styles.Button(label, true, false))
	previewBtn := zone.Mark(zonePreview, styles.Button(PreviewLabel, false, m.previewing))
	return copyBtn + " " + previewBtn
}

func sectionView(s *registry.Section, focus item, width int) string {
	var lines []string
	if !s.Collapsed {
		lines = controlLines(s.Instances, focus.id(), width-2, 0)
	}
	headFocused := focus.section == s && focus.inst == nil
	block := styles.RenderSection(lines, s.Name, strconv.Itoa(len(s.Instances)), width, headFocused, s.Collapsed)

	parts := strings.SplitN(block, "\n", 2)
	parts[0] = zone.Mark(headZone(s), parts[0])
	return zone.Mark(blockZone(s), strings.Join(parts, "\n"))
}

func controlLines(list []control.Instance, focusID string, width, depth int) []string {
	indent := strings.Repeat("  ", depth)
	var out []string
	for _, inst := range list {
		for _, line := range strings.Split(inst.View(inst.ZoneID() == focusID, width-len(indent)), "\n") {
			out = append(out, indent+line)
		}
		if g, ok := inst.(*control.Group); ok && !g.Collapsed() {
			out = append(out, controlLines(g.Children(), focusID, width, depth+1)...)
		}
	}
	return out
}

// pageView is the background: the page title and the bound properties of
// every mounted element.
func (m Model) pageView(width, height int) string {
	lines := []string{styles.TitleStyle.Render(m.pageTitle()), ""}
	for _, s := range m.reg.Sections() {
		marker := "  "
		if s.Element.HasClass(dom.HighlightClass) {
			marker = styles.SelectionIndicatorStyle.Render("▶ ")
		}
		var props []string
		for _, d := range s.Element.Style() {
			if strings.HasPrefix(d.Property, dom.CustomPropertyPrefix) {
				props = append(props, d.Property+": "+dom.UnescapeValue(d.Value))
			}
		}
		lines = append(lines, marker+styles.LabelStyle.Render(s.Name))
		if len(props) > 0 {
			lines = append(lines, "    "+styles.MutedStyle.Render(styles.TruncateString(strings.Join(props, "; "), max(width-4, 1))))
		}
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func (m Model) pageTitle() string {
	if els, err := m.doc.QueryAll("title"); err == nil && len(els) > 0 {
		if t := strings.TrimSpace(els[0].Text()); t != "" {
			return t
		}
	}
	if m.pagePath != "" {
		return m.pagePath
	}
	return "page"
}
