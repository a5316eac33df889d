package panel

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/require"
)

func TestProgram_TuneAndQuit(t *testing.T) {
	m, _ := newModel(t, page)

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 30))

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("DialKit (ctrl+shift+d)"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(shortcut)
	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte(CopyLabel))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tab)
	tm.Send(runes("l"))
	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("--dk-blur: 25"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})

	final, ok := tm.FinalModel(t, teatest.WithFinalTimeout(3*time.Second)).(Model)
	require.True(t, ok)
	require.True(t, final.Visible())

	v, ok := final.doc.GetElementByID("hero").Property("--dk-blur")
	require.True(t, ok)
	require.Equal(t, "25", v)
}
