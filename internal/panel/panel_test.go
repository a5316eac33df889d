package panel

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/require"

	"github.com/yakschuss/dialkit-rails/internal/config"
	"github.com/yakschuss/dialkit-rails/internal/control"
	"github.com/yakschuss/dialkit-rails/internal/dom"
	"github.com/yakschuss/dialkit-rails/internal/log"
	"github.com/yakschuss/dialkit-rails/internal/pubsub"
	"github.com/yakschuss/dialkit-rails/internal/report"
	"github.com/yakschuss/dialkit-rails/internal/ui/markdown"
	"github.com/yakschuss/dialkit-rails/internal/ui/overlay"
	"github.com/yakschuss/dialkit-rails/internal/watcher"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

const page = `<html><head><title>Landing</title></head><body>
<div id="hero" data-dial-kit='{"blur":[24,0,100],"shuffle":{"type":"action"}}'></div>
<section class="card" data-dial-kit='{"dark":false}'></section>
</body></html>`

type fakeClipboard struct {
	text string
	err  error
}

func (f *fakeClipboard) Copy(text string) error {
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

func newModel(t *testing.T, markup string, mutate ...func(*Options)) (Model, *fakeClipboard) {
	t.Helper()
	doc, err := dom.ParseString(markup)
	require.NoError(t, err)

	clip := &fakeClipboard{}
	opts := Options{
		Document:      doc,
		Boot:          config.DefaultBoot(),
		Copier:        &report.Copier{Primary: clip},
		MarkdownStyle: markdown.StyleNoTTY,
	}
	for _, fn := range mutate {
		fn(&opts)
	}
	m, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m, clip
}

func send(m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	tab      = tea.KeyMsg{Type: tea.KeyTab}
	enter    = tea.KeyMsg{Type: tea.KeyEnter}
	esc      = tea.KeyMsg{Type: tea.KeyEsc}
	shortcut = tea.KeyMsg{Type: tea.KeyCtrlD}
)

func element(t *testing.T, m Model, id string) *dom.Element {
	t.Helper()
	el := m.doc.GetElementByID(id)
	require.NotNil(t, el)
	return el
}

func TestNew_MountsSectionsHidden(t *testing.T) {
	m, _ := newModel(t, page)

	require.Equal(t, 2, m.Registry().Len())
	require.False(t, m.Visible())

	view := m.View()
	require.Contains(t, view, "DialKit (ctrl+shift+d)")
	require.Contains(t, view, "Landing")
	require.NotContains(t, view, CopyLabel)
}

func TestNew_RequiresDocument(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)
}

func TestShortcutTogglesPanel(t *testing.T) {
	m, _ := newModel(t, page)

	m, _ = send(m, shortcut)
	require.True(t, m.Visible())
	view := m.View()
	require.Contains(t, view, Title)
	require.Contains(t, view, CopyLabel)
	require.Contains(t, view, "#hero")
	require.NotContains(t, view, "⚙", "toggle button hides while the panel is open")

	m, _ = send(m, shortcut)
	require.False(t, m.Visible())
}

func TestEmptyState(t *testing.T) {
	m, _ := newModel(t, `<html><body><p>nothing to tune</p></body></html>`)
	m, _ = send(m, shortcut)

	view := m.View()
	require.Contains(t, view, EmptyText)
	require.Contains(t, view, "Add dial_kit(...)")
}

func TestEmptyStateFollowsBatches(t *testing.T) {
	m, _ := newModel(t, `<html><body></body></html>`)
	require.True(t, m.mounts.empty)

	els, err := m.doc.Fragment(`<div id="late" data-dial-kit='{"gap":8}'></div>`)
	require.NoError(t, err)
	m.doc.Body().AppendChild(els[0])

	m, _ = send(m, tea.WindowSizeMsg{Width: 100, Height: 30})
	require.False(t, m.mounts.empty)
	require.Equal(t, 1, m.mounts.refreshes)

	els[0].Remove()
	m, _ = send(m, tea.WindowSizeMsg{Width: 100, Height: 30})
	require.True(t, m.mounts.empty)
	require.Equal(t, 2, m.mounts.refreshes)
}

func TestFocusHighlightsTarget(t *testing.T) {
	m, _ := newModel(t, page)
	hero := element(t, m, "hero")
	card := m.Registry().Sections()[1].Element

	m, _ = send(m, shortcut, tab)
	require.True(t, hero.HasClass(dom.HighlightClass))

	m, _ = send(m, tab, tab)
	require.False(t, hero.HasClass(dom.HighlightClass))
	require.True(t, card.HasClass(dom.HighlightClass))

	m, _ = send(m, shortcut)
	require.False(t, card.HasClass(dom.HighlightClass), "hiding the panel clears the highlight")
}

func TestSliderKeysBindStyle(t *testing.T) {
	m, _ := newModel(t, page)
	hero := element(t, m, "hero")

	m, _ = send(m, shortcut, tab, runes("l"))
	v, ok := hero.Property("--dk-blur")
	require.True(t, ok)
	require.Equal(t, "25", v)

	it, ok := m.focused()
	require.True(t, ok)
	require.IsType(t, &control.Slider{}, it.inst)
}

func TestHiddenPanelIgnoresControlKeys(t *testing.T) {
	m, _ := newModel(t, page)
	hero := element(t, m, "hero")

	_, _ = send(m, tab, runes("l"))
	v, _ := hero.Property("--dk-blur")
	require.Equal(t, "24", v)
	require.False(t, hero.HasClass(dom.HighlightClass))
}

func TestActivateOnHeaderCollapsesSection(t *testing.T) {
	m, _ := newModel(t, page)
	require.Len(t, m.items(), 5)

	m, _ = send(m, shortcut, enter)
	require.True(t, m.Registry().Sections()[0].Collapsed)
	require.Len(t, m.items(), 3)

	m, _ = send(m, enter)
	require.False(t, m.Registry().Sections()[0].Collapsed)
}

func TestCopyValues(t *testing.T) {
	m, clip := newModel(t, page)

	m, cmd := send(m, shortcut, runes("y"))
	require.NotNil(t, cmd)
	require.True(t, m.copied)
	require.Contains(t, clip.text, report.Header)
	require.Contains(t, clip.text, "`blur`: 24")
	require.Contains(t, m.View(), CopiedLabel)

	m, _ = send(m, copyResetMsg{seq: m.copySeq - 1})
	require.True(t, m.copied, "a stale reset is ignored")

	m, _ = send(m, copyResetMsg{seq: m.copySeq})
	require.False(t, m.copied)
	require.Contains(t, m.View(), CopyLabel)
}

func TestCopyFailureShowsToast(t *testing.T) {
	m, clip := newModel(t, page)
	clip.err = errors.New("no display")

	m, _ = send(m, shortcut, runes("y"))
	require.False(t, m.copied)
	require.True(t, m.toaster.Visible())
	require.Contains(t, m.View(), "Copy failed")
}

func TestActionShowsToast(t *testing.T) {
	m, _ := newModel(t, page)

	m, _ = send(m, shortcut, tab, tab, enter)

	msg := m.actionListener.Listen()()
	evt, ok := msg.(pubsub.Event[ActionNotice])
	require.True(t, ok)
	require.Equal(t, pubsub.ActionEvent, evt.Type)
	require.Equal(t, ActionNotice{Section: "#hero", Action: "shuffle"}, evt.Payload)

	m, cmd := send(m, evt)
	require.NotNil(t, cmd)
	require.True(t, m.toaster.Visible())
	require.Contains(t, m.View(), "shuffle fired on #hero")
}

func TestMutationsReachRegistryAfterUpdate(t *testing.T) {
	m, _ := newModel(t, page)

	els, err := m.doc.Fragment(`<div id="late" data-dial-kit='{"gap":8}'></div>`)
	require.NoError(t, err)
	m.doc.Body().AppendChild(els[0])
	require.Equal(t, 2, m.Registry().Len(), "nothing is delivered before the update ends")

	m, _ = send(m, tea.WindowSizeMsg{Width: 100, Height: 30})
	require.Equal(t, 3, m.Registry().Len())

	els[0].Remove()
	m, _ = send(m, tea.WindowSizeMsg{Width: 100, Height: 30})
	require.Equal(t, 2, m.Registry().Len())
}

func TestPageReloadKeepsTunedValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(page), 0o600))

	m, _ := newModel(t, page, func(o *Options) { o.PagePath = path })
	m, _ = send(m, shortcut, tab, runes("l"))

	next := `<html><head><title>Landing</title></head><body>
<div id="hero" data-dial-kit='{"blur":[24,0,100],"shuffle":{"type":"action"}}'></div>
<section class="card" data-dial-kit='{"dark":false}'></section>
<footer data-dial-kit='{"gap":8}'></footer>
</body></html>`
	require.NoError(t, os.WriteFile(path, []byte(next), 0o600))

	m, _ = send(m, watcher.PageChangedMsg{})
	require.Equal(t, 3, m.Registry().Len())

	v, _ := element(t, m, "hero").Property("--dk-blur")
	require.Equal(t, "25", v)
}

func TestPageReloadFailureShowsToast(t *testing.T) {
	m, _ := newModel(t, page, func(o *Options) {
		o.PagePath = filepath.Join(t.TempDir(), "missing.html")
	})

	m, _ = send(m, watcher.PageChangedMsg{})
	require.True(t, m.toaster.Visible())
	require.Equal(t, 2, m.Registry().Len())
}

func TestDragSwitchesToAbsolutePlacement(t *testing.T) {
	m, _ := newModel(t, page)
	m, _ = send(m, tea.WindowSizeMsg{Width: 120, Height: 40}, shortcut)

	x0, y0 := m.origin()
	m = m.beginDrag(tea.MouseMsg{X: x0 + 3, Y: y0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	require.True(t, m.dragging)
	require.Equal(t, overlay.Absolute, m.position)
	require.Equal(t, x0, m.x)
	require.Equal(t, y0, m.y)

	m, _ = send(m, tea.MouseMsg{X: 13, Y: 5, Action: tea.MouseActionMotion})
	require.Equal(t, 10, m.x)
	require.Equal(t, 5, m.y)

	m, _ = send(m, tea.MouseMsg{X: 13, Y: 5, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	require.False(t, m.dragging)
	require.Equal(t, overlay.Absolute, m.position)

	x, y := m.origin()
	require.Equal(t, 10, x)
	require.Equal(t, 5, y)
}

// zoneOf renders m until id resolves and returns its zone.
func zoneOf(t *testing.T, m Model, id string) *zone.ZoneInfo {
	t.Helper()
	for retries := 0; retries < 50; retries++ {
		_ = m.View()
		if z := zone.Get(id); z != nil && !z.IsZero() {
			return z
		}
		time.Sleep(time.Millisecond)
	}
	require.FailNow(t, "zone never registered", id)
	return nil
}

func leftClick(z *zone.ZoneInfo) tea.MouseMsg {
	return tea.MouseMsg{X: z.StartX, Y: z.StartY, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}
}

func TestChromeClickClosesOpenDropdown(t *testing.T) {
	markup := `<html><body>
<div id="hero" data-dial-kit='{"mode":{"type":"select","options":["light","dark"]}}'></div>
<section class="card" data-dial-kit='{"dark":false}'></section>
</body></html>`

	for _, tc := range []struct {
		name   string
		target func(m Model) string
	}{
		{"section header", func(m Model) string { return headZone(m.Registry().Sections()[1]) }},
		{"preview button", func(Model) string { return zonePreview }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			m, _ := newModel(t, markup)
			m, _ = send(m, tea.WindowSizeMsg{Width: 120, Height: 40}, shortcut, tab)

			m, cmd := send(m, enter)
			sel, ok := m.Registry().Sections()[0].Instances[0].(*control.Select)
			require.True(t, ok)
			require.True(t, sel.IsOpen())
			require.NotNil(t, cmd)
			m, _ = send(m, cmd())

			m, _ = send(m, leftClick(zoneOf(t, m, tc.target(m))))
			require.False(t, sel.IsOpen())
		})
	}
}

func TestEscStopsEditing(t *testing.T) {
	m, _ := newModel(t, `<html><body><h1 id="t" data-dial-kit='{"headline":"Hello"}'></h1></body></html>`)

	m, _ = send(m, shortcut, tab, enter)
	ed, _, ok := m.editor()
	require.True(t, ok)
	require.True(t, ed.Editing())

	m, _ = send(m, runes("q"))
	_, _, ok = m.editor()
	require.True(t, ok, "q is typed into the input while editing")

	m, _ = send(m, esc)
	_, _, ok = m.editor()
	require.False(t, ok)
}

func TestQuit(t *testing.T) {
	m, _ := newModel(t, page)
	_, cmd := send(m, runes("q"))
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestPreviewRendersReport(t *testing.T) {
	m, _ := newModel(t, page)

	m, _ = send(m, shortcut, runes("p"))
	require.True(t, m.previewing)
	view := m.View()
	require.Contains(t, view, "blur")
	require.NotContains(t, view, EmptyText)

	m, _ = send(m, esc)
	require.False(t, m.previewing)
}

func TestCloseClearsHighlights(t *testing.T) {
	m, _ := newModel(t, page)
	hero := element(t, m, "hero")

	m, _ = send(m, shortcut, tab)
	require.True(t, hero.HasClass(dom.HighlightClass))

	require.NoError(t, m.Close())
	require.False(t, hero.HasClass(dom.HighlightClass))
	require.Zero(t, m.Registry().Len())
}

func TestDebugLogOverlay(t *testing.T) {
	var buf bytes.Buffer
	log.InitWriter(&buf)
	t.Cleanup(log.Reset)

	m, _ := newModel(t, page, func(o *Options) { o.Debug = true })
	require.NotNil(t, m.logListener)

	m, _ = send(m, tea.WindowSizeMsg{Width: 120, Height: 40}, tea.KeyMsg{Type: tea.KeyCtrlL})
	require.True(t, m.logs.Visible())

	m, cmd := send(m, log.LogEvent{Payload: "2025-12-06T10:45:00 [INFO] [ui] hello"})
	require.NotNil(t, cmd)
	require.Equal(t, 1, m.logs.Len())
	require.Contains(t, m.View(), "hello")
}

func TestItems_SkipCollapsedGroups(t *testing.T) {
	m, _ := newModel(t, `<html><body><div id="g" data-dial-kit='{"shadow":{"x":2,"y":4},"gap":8}'></div></body></html>`)
	require.Len(t, m.items(), 5)

	g, ok := m.Registry().Sections()[0].Instances[0].(*control.Group)
	require.True(t, ok)
	g.SetCollapsed(true)
	require.Len(t, m.items(), 3)
}
