package dom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseStyle(t *testing.T) {
	tests := []struct {
		name  string
		style string
		want  []Declaration
	}{
		{"empty", "", nil},
		{"single", "color: red", []Declaration{{"color", "red"}}},
		{"trailing semicolon", "color:red;", []Declaration{{"color", "red"}}},
		{"lowercases standard", "COLOR: Red", []Declaration{{"color", "Red"}}},
		{"keeps custom case", "--dk-Blur: 4", []Declaration{{"--dk-Blur", "4"}}},
		{"semicolon in url", `background: url("a;b.png"); gap: 1px`, []Declaration{
			{"background", `url("a;b.png")`},
			{"gap", "1px"},
		}},
		{"semicolon in parens", "filter: blur(calc(1px;2px)); x: y", []Declaration{
			{"filter", "blur(calc(1px;2px))"},
			{"x", "y"},
		}},
		{"drops junk", "nonsense; : 1; a: b", []Declaration{{"a", "b"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ParseStyle(tt.style))
		})
	}
}

func TestSetProperty(t *testing.T) {
	doc := mustParse(t, `<div id="a" style="color: red; --dk-blur: 1"></div>`)
	el := doc.GetElementByID("a")

	el.SetProperty("--dk-blur", "40")
	el.SetProperty("--dk-opacity", "0.5")

	v, ok := el.Property("--dk-blur")
	require.True(t, ok)
	require.Equal(t, "40", v)
	style, _ := el.Attr("style")
	require.Equal(t, "color: red; --dk-blur: 40; --dk-opacity: 0.5;", style)

	el.RemoveProperty("color")
	el.RemoveProperty("--dk-blur")
	el.RemoveProperty("--dk-opacity")
	require.False(t, el.HasAttr("style"))
}

func TestSetProperty_EscapesSpecialCharacters(t *testing.T) {
	doc := mustParse(t, `<div id="a"></div>`)
	el := doc.GetElementByID("a")

	el.SetProperty("--dk-label", "Don't")
	el.SetProperty("--dk-note", "a;b (c")
	el.SetProperty("--dk-blur", "16")
	el.SetProperty("--dk-blur", "40")

	style, _ := el.Attr("style")
	require.Equal(t, `--dk-label: Don\'t; --dk-note: a\;b \(c; --dk-blur: 40;`, style)

	v, ok := el.Property("--dk-label")
	require.True(t, ok)
	require.Equal(t, "Don't", v)
	v, _ = el.Property("--dk-note")
	require.Equal(t, "a;b (c", v)
	v, _ = el.Property("--dk-blur")
	require.Equal(t, "40", v)
}

func TestEscapeValue_RoundTrip(t *testing.T) {
	for _, v := range []string{"", "plain", `a\b`, `"quoted"`, "it's", "x;y", "f(x)", `trailing\`} {
		require.Equal(t, v, UnescapeValue(EscapeValue(v)), v)
	}
}

func TestParseStyle_EscapedSemicolon(t *testing.T) {
	require.Equal(t, []Declaration{{"--dk-a", `x\;y`}, {"b", "c"}}, ParseStyle(`--dk-a: x\;y; b: c`))
}

func TestSetProperty_NoMutationRecord(t *testing.T) {
	doc := mustParse(t, `<div id="a"></div>`)
	doc.GetElementByID("a").SetProperty("--dk-gap", "8")
	require.Zero(t, doc.Pending())
}
