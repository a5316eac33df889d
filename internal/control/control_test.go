package control

import (
	"os"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/require"

	"github.com/yakschuss/dialkit-rails/internal/controlspec"
	"github.com/yakschuss/dialkit-rails/internal/dom"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

type binding struct {
	key, value string
}

type fakeTarget struct {
	binds   []binding
	actions []string
}

func (f *fakeTarget) Bind(key, value string) { f.binds = append(f.binds, binding{key, value}) }
func (f *fakeTarget) Notify(action string)   { f.actions = append(f.actions, action) }

func (f *fakeTarget) last(key string) string {
	for i := len(f.binds) - 1; i >= 0; i-- {
		if f.binds[i].key == key {
			return f.binds[i].value
		}
	}
	return ""
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func normalized(t *testing.T, payload string) controlspec.Map {
	t.Helper()
	m, err := controlspec.NormalizeJSON(payload)
	require.NoError(t, err)
	return m
}

// scan registers the zones of view and waits for id to resolve.
func scan(t *testing.T, view, id string) *zone.ZoneInfo {
	t.Helper()
	var z *zone.ZoneInfo
	for retries := 0; retries < 50; retries++ {
		zone.Scan(view)
		z = zone.Get(id)
		if z != nil && !z.IsZero() {
			return z
		}
		time.Sleep(time.Millisecond)
	}
	require.FailNow(t, "zone never registered", id)
	return nil
}

func TestFormatLabel(t *testing.T) {
	tests := map[string]string{
		"blur":           "blur",
		"border_radius":  "border radius",
		"borderRadius":   "border radius",
		"shadowX_offset": "shadow x offset",
		"URL":            "url",
	}
	for in, want := range tests {
		require.Equal(t, want, FormatLabel(in), in)
	}
}

func TestFormatBound(t *testing.T) {
	require.Equal(t, "40", FormatBound(40.0))
	require.Equal(t, "0.5", FormatBound(0.5))
	require.Equal(t, "dark", FormatBound("dark"))
}

func TestBuild_EndToEndSlider(t *testing.T) {
	target := &fakeTarget{}
	insts, err := BuildAll(normalized(t, `{"blur":[16,0,100]}`), target)
	require.NoError(t, err)
	require.Len(t, insts, 1)

	s, ok := insts[0].(*Slider)
	require.True(t, ok)
	require.Equal(t, []binding{{"blur", "16"}}, target.binds, "construction binds the default")

	s.SetValue(40)
	require.Equal(t, "40", target.last("blur"))
	v, ok := s.Value()
	require.True(t, ok)
	require.Equal(t, 40.0, v)
}

func TestBuild_UnknownSpec(t *testing.T) {
	_, err := Build("x", nil, &fakeTarget{})
	require.ErrorIs(t, err, ErrUnknownSpec)
}

func TestBuild_ZoneIDsAreUnique(t *testing.T) {
	insts, err := BuildAll(normalized(t, `{"a":1,"b":2}`), &fakeTarget{})
	require.NoError(t, err)
	require.NotEqual(t, insts[0].ZoneID(), insts[1].ZoneID())
}

func TestElementTarget(t *testing.T) {
	doc, err := dom.ParseString(`<div id="hero"></div>`)
	require.NoError(t, err)
	hero := doc.GetElementByID("hero")
	target := ElementTarget{El: hero}

	var got []string
	doc.Body().AddEventListener(dom.ActionEventType, func(ev *dom.Event) {
		got = append(got, ev.Detail["action"].(string))
	})

	target.Bind("blur", "40")
	target.Notify("shuffle")

	v, ok := hero.Property("--dk-blur")
	require.True(t, ok)
	require.Equal(t, "40", v)
	require.Equal(t, []string{"shuffle"}, got)
}
