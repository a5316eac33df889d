package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_DefaultsToDark(t *testing.T) {
	r, err := New(60, "")
	require.NoError(t, err)
	require.Equal(t, StyleDark, r.style)
	require.Equal(t, 60, r.Width())
}

func TestSetWidth_Rebuilds(t *testing.T) {
	r, err := New(60, StyleNoTTY)
	require.NoError(t, err)
	first := r.renderer

	require.NoError(t, r.SetWidth(60))
	require.Same(t, first, r.renderer)

	require.NoError(t, r.SetWidth(30))
	require.Equal(t, 30, r.Width())
	require.NotSame(t, first, r.renderer)
}

func TestSetWidth_ClampsToOne(t *testing.T) {
	r, err := New(0, StyleNoTTY)
	require.NoError(t, err)
	require.Equal(t, 1, r.Width())
}

func TestRender_Report(t *testing.T) {
	r, err := New(80, StyleNoTTY)
	require.NoError(t, err)

	out, err := r.Render("## DialKit Values\n\n### #hero\n\n**Changed from defaults:**\n- `blur`: **12** (was 24)\n")
	require.NoError(t, err)

	plain := StripANSI(out)
	require.Contains(t, plain, "DialKit Values")
	require.Contains(t, plain, "#hero")
	require.Contains(t, plain, "blur")
}

func TestStripANSI(t *testing.T) {
	require.Equal(t, "plain", StripANSI("\x1b[1;31mplain\x1b[0m"))
}
