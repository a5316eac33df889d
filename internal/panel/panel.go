// Package panel is the floating DialKit panel. It mounts one section per
// registered element, routes input to the focused control, copies the
// values report and follows the page as it changes on disk.
package panel

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yakschuss/dialkit-rails/internal/config"
	"github.com/yakschuss/dialkit-rails/internal/control"
	"github.com/yakschuss/dialkit-rails/internal/dom"
	"github.com/yakschuss/dialkit-rails/internal/keys"
	"github.com/yakschuss/dialkit-rails/internal/log"
	"github.com/yakschuss/dialkit-rails/internal/pubsub"
	"github.com/yakschuss/dialkit-rails/internal/registry"
	"github.com/yakschuss/dialkit-rails/internal/report"
	"github.com/yakschuss/dialkit-rails/internal/tracing"
	"github.com/yakschuss/dialkit-rails/internal/ui/logoverlay"
	"github.com/yakschuss/dialkit-rails/internal/ui/overlay"
	"github.com/yakschuss/dialkit-rails/internal/ui/toaster"
	"github.com/yakschuss/dialkit-rails/internal/watcher"
)

// Panel text.
const (
	Title        = "DialKit"
	CopyLabel    = "Copy values"
	CopiedLabel  = "Copied!"
	PreviewLabel = "Preview"
	EmptyText    = "No dial_kit elements found."
	EmptyHint    = "Add dial_kit(...) to an element in your view."
)

const (
	// CopiedDuration is how long the copy button reads CopiedLabel.
	CopiedDuration = 1200 * time.Millisecond

	toastDuration = 3 * time.Second

	// Width is the outer width of the panel box.
	Width = 44
)

// Zone ids of the chrome.
const (
	zoneHeader  = "dk-panel:header"
	zoneClose   = "dk-panel:close"
	zoneCopy    = "dk-panel:copy"
	zonePreview = "dk-panel:preview"
	zoneToggle  = "dk-panel:toggle"
)

// ActionNotice is published for every dial-kit:action event that reaches
// the document root.
type ActionNotice struct {
	Section string
	Action  string
}

type copyResetMsg struct {
	seq int
}

// Options configures New.
type Options struct {
	Document *dom.Document
	// PagePath is re-read when Changes fires.
	PagePath string
	// Changes carries page change notifications. nil disables reloads.
	Changes <-chan struct{}
	Boot    config.Boot
	// MarkdownStyle is the glamour style of the preview.
	MarkdownStyle string
	// Copier defaults to the system clipboard with an OSC 52 fallback on
	// stdout.
	Copier *report.Copier
	Tracer trace.Tracer
	// Debug enables the log overlay.
	Debug bool
}

// Model is the panel state. Copies share the registry, the mount state
// and the document.
type Model struct {
	doc      *dom.Document
	pagePath string
	changes  <-chan struct{}
	boot     config.Boot
	copier   *report.Copier
	tracer   trace.Tracer

	reg    *registry.Registry
	mounts *mounts

	width   int
	height  int
	visible bool

	// Placement. Dragging switches to overlay.Absolute.
	position overlay.Position
	x, y     int
	dragging bool
	dragDX   int
	dragDY   int

	focusID    string
	copied     bool
	copySeq    int
	previewing bool
	preview    *previewCache

	help    help.Model
	toaster toaster.Model

	debug       bool
	logs        logoverlay.Model
	logListener *log.LogListener

	actions        *pubsub.Broker[ActionNotice]
	actionListener *pubsub.ContinuousListener[ActionNotice]
	stopActions    func()
	cancel         context.CancelFunc
}

// New mounts every marked element of opts.Document and starts observing
// it. The panel starts hidden behind its toggle button.
func New(opts Options) (Model, error) {
	if opts.Document == nil || opts.Document.Root() == nil {
		return Model{}, fmt.Errorf("panel needs a document with a root element")
	}
	if opts.Copier == nil {
		opts.Copier = report.NewCopier(os.Stdout)
	}
	if opts.Tracer == nil {
		opts.Tracer = tracing.Noop()
	}

	mt := &mounts{}
	reg := registry.New(registry.WithMounter(mt), registry.WithTracer(opts.Tracer))
	if err := reg.Scan(opts.Document.Root()); err != nil {
		return Model{}, err
	}
	mt.empty = reg.Len() == 0
	reg.Observe(opts.Document)

	preview, err := newPreviewCache(opts.MarkdownStyle)
	if err != nil {
		reg.Close()
		return Model{}, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	actions := pubsub.NewBroker[ActionNotice]()
	stop := opts.Document.Root().AddEventListener(dom.ActionEventType, func(ev *dom.Event) {
		name, _ := ev.Detail["action"].(string)
		actions.Publish(pubsub.ActionEvent, ActionNotice{
			Section: registry.DisplayName(ev.Target()),
			Action:  name,
		})
	})

	m := Model{
		doc:            opts.Document,
		pagePath:       opts.PagePath,
		changes:        opts.Changes,
		boot:           opts.Boot,
		copier:         opts.Copier,
		tracer:         opts.Tracer,
		reg:            reg,
		mounts:         mt,
		position:       opts.Boot.Position,
		preview:        preview,
		help:           help.New(),
		toaster:        toaster.New(),
		debug:          opts.Debug,
		logs:           logoverlay.New(),
		actions:        actions,
		actionListener: pubsub.NewContinuousListener(ctx, actions),
		stopActions:    stop,
		cancel:         cancel,
	}
	m.help.Width = Width - frame
	if opts.Debug {
		m.logListener = log.NewListener(ctx)
	}
	log.Info(log.CatUI, "panel ready", "sections", reg.Len(), "position", opts.Boot.PositionName)
	return m, nil
}

// Init starts the action, page change and log listeners.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.actionListener.Listen()}
	if m.changes != nil {
		cmds = append(cmds, watcher.Listen(m.changes))
	}
	if m.logListener != nil {
		cmds = append(cmds, m.logListener.Listen())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model. Pending document mutations are delivered
// to the registry after every message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)
	m.doc.Flush()
	return m, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logs.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case copyResetMsg:
		if msg.seq == m.copySeq {
			m.copied = false
		}
		return m, nil

	case pubsub.Event[ActionNotice]:
		text := fmt.Sprintf("%s fired on %s", msg.Payload.Action, msg.Payload.Section)
		m.toaster = m.toaster.Show(text, toaster.StyleInfo)
		return m, tea.Batch(m.toaster.ScheduleDismiss(toastDuration), m.actionListener.Listen())

	case watcher.PageChangedMsg:
		cmds := []tea.Cmd{watcher.Listen(m.changes)}
		if err := m.reload(); err != nil {
			log.WarnErr(log.CatDOM, "page reload failed", err, "path", m.pagePath)
			m.toaster = m.toaster.Show("Reload failed: "+err.Error(), toaster.StyleError)
			cmds = append(cmds, m.toaster.ScheduleDismiss(toastDuration))
		}
		return m, tea.Batch(cmds...)

	case log.LogEvent:
		m.logs.Append(msg.Payload)
		return m, m.logListener.Listen()

	case logoverlay.CloseMsg:
		return m, nil

	case toaster.DismissMsg:
		m.toaster = m.toaster.Update(msg)
		return m, nil
	}

	// Everything else (cursor blinks, dropdown arming) goes to every
	// control, which ignores what is not addressed to it.
	var cmds []tea.Cmd
	for _, s := range m.reg.Sections() {
		for _, inst := range s.Leaves() {
			cmds = append(cmds, inst.Update(msg))
		}
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.debug && key.Matches(msg, keys.Panel.Logs) {
		m.logs.Toggle()
		return m, nil
	}
	if m.logs.Visible() {
		var cmd tea.Cmd
		m.logs, cmd = m.logs.Update(msg)
		return m, cmd
	}

	if m.boot.Shortcut.Matches(keys.FromTea(msg)) {
		return m.toggle(), nil
	}

	if ed, it, ok := m.editor(); ok {
		switch {
		case msg.Type == tea.KeyCtrlC:
			return m, tea.Quit
		case key.Matches(msg, keys.Panel.Escape):
			ed.StopEditing()
			return m, nil
		}
		return m, it.inst.Update(msg)
	}

	if key.Matches(msg, keys.Panel.Quit) {
		return m, tea.Quit
	}
	if !m.visible {
		if key.Matches(msg, keys.Panel.Activate) {
			return m.toggle(), nil
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Panel.Next):
		return m.moveFocus(1), nil
	case key.Matches(msg, keys.Panel.Prev):
		return m.moveFocus(-1), nil
	case key.Matches(msg, keys.Panel.Copy):
		return m.copyValues()
	case key.Matches(msg, keys.Panel.Preview):
		m.previewing = !m.previewing
		return m, nil
	case key.Matches(msg, keys.Panel.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, keys.Panel.Escape):
		m.previewing = false
		return m, nil
	}

	it, ok := m.focused()
	if !ok {
		return m, nil
	}
	m.focusID = it.id()
	if it.inst == nil {
		if key.Matches(msg, keys.Panel.Activate) {
			it.section.Collapsed = !it.section.Collapsed
		}
		return m.syncHighlight(nil), nil
	}
	return m.syncHighlight(nil), it.inst.Update(msg)
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if m.logs.Visible() {
		return m, nil
	}
	if m.dragging {
		switch msg.Action {
		case tea.MouseActionMotion:
			m.x = max(msg.X-m.dragDX, 0)
			m.y = max(msg.Y-m.dragDY, 0)
		case tea.MouseActionRelease:
			m.dragging = false
			m.closeDropdowns(msg)
		}
		return m, nil
	}

	if !m.visible {
		if clicked(zoneToggle, msg) {
			return m.toggle(), nil
		}
		return m, nil
	}

	if isPress(msg) && hit(zoneHeader, msg) && !hit(zoneClose, msg) {
		return m.beginDrag(msg), nil
	}
	m.closeDropdowns(msg)
	switch {
	case clicked(zoneClose, msg):
		return m.toggle(), nil
	case clicked(zoneCopy, msg):
		return m.copyValues()
	case clicked(zonePreview, msg):
		m.previewing = !m.previewing
		return m, nil
	}

	var hover *registry.Section
	for _, s := range m.reg.Sections() {
		if clicked(headZone(s), msg) {
			s.Collapsed = !s.Collapsed
			m.focusID = headZone(s)
			return m.syncHighlight(s), nil
		}
		if hit(blockZone(s), msg) {
			hover = s
		}
	}

	var cmds []tea.Cmd
	for _, it := range m.items() {
		if it.inst == nil {
			continue
		}
		if isClick(msg) && it.inst.InBounds(msg) {
			m.focusID = it.id()
		}
		cmds = append(cmds, it.inst.Update(msg))
	}
	return m.syncHighlight(hover), tea.Batch(cmds...)
}

// closeDropdowns hands a click to every open Select it landed outside of,
// so chrome clicks close dropdowns like clicks anywhere else.
func (m Model) closeDropdowns(msg tea.MouseMsg) {
	if !isClick(msg) {
		return
	}
	for _, s := range m.reg.Sections() {
		for _, inst := range s.Leaves() {
			if sel, ok := inst.(*control.Select); ok && sel.IsOpen() && !sel.InBounds(msg) {
				_ = sel.Update(msg)
			}
		}
	}
}

// beginDrag pins the panel at its current origin and follows the pointer
// from there.
func (m Model) beginDrag(msg tea.MouseMsg) Model {
	x, y := m.origin()
	m.position = overlay.Absolute
	m.x, m.y = x, y
	m.dragging = true
	m.dragDX = msg.X - x
	m.dragDY = msg.Y - y
	return m
}

func (m Model) toggle() Model {
	m.visible = !m.visible
	log.Debug(log.CatUI, "panel toggled", "visible", m.visible)
	return m.syncHighlight(nil)
}

func (m Model) copyValues() (Model, tea.Cmd) {
	r := report.Build(m.reg.Sections())
	method, err := m.copier.Copy(r.Text())
	if err != nil {
		m.toaster = m.toaster.Show("Copy failed: "+err.Error(), toaster.StyleError)
		return m, m.toaster.ScheduleDismiss(toastDuration)
	}
	log.Info(log.CatClipboard, "copied values", "method", string(method), "changed", r.ChangedCount())
	m.copied = true
	m.copySeq++
	seq := m.copySeq
	return m, tea.Tick(CopiedDuration, func(time.Time) tea.Msg { return copyResetMsg{seq: seq} })
}

// reload patches the document from the page file. The resulting
// mutations reach the registry on the next flush.
func (m Model) reload() error {
	if m.pagePath == "" {
		return nil
	}
	_, span := m.tracer.Start(context.Background(), tracing.SpanReconcile,
		trace.WithAttributes(attribute.String(tracing.AttrPath, m.pagePath)))
	defer span.End()

	f, err := os.Open(m.pagePath)
	if err != nil {
		tracing.RecordError(span, err)
		return fmt.Errorf("opening page: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := m.doc.ReconcileFrom(f); err != nil {
		tracing.RecordError(span, err)
		return err
	}
	log.Debug(log.CatDOM, "page reconciled", "path", m.pagePath, "pending", m.doc.Pending())
	return nil
}

// Visible reports whether the panel is showing.
func (m Model) Visible() bool { return m.visible }

// Registry exposes the section registry.
func (m Model) Registry() *registry.Registry { return m.reg }

// Report builds the values report of the current state.
func (m Model) Report() *report.Report { return report.Build(m.reg.Sections()) }

// Close stops listening and unmounts every section, clearing target
// highlights.
func (m *Model) Close() error {
	if m.stopActions != nil {
		m.stopActions()
	}
	if m.cancel != nil {
		m.cancel()
	}
	if m.actions != nil {
		m.actions.Close()
	}
	m.mounts.highlight(nil)
	m.reg.Close()
	return nil
}

func hit(id string, msg tea.MouseMsg) bool {
	z := zone.Get(id)
	return z != nil && z.InBounds(msg)
}

func isPress(msg tea.MouseMsg) bool {
	return msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress
}

func isClick(msg tea.MouseMsg) bool {
	return msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionRelease
}

func clicked(id string, msg tea.MouseMsg) bool {
	return isClick(msg) && hit(id, msg)
}
