package report

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/yakschuss/dialkit-rails/internal/control"
	"github.com/yakschuss/dialkit-rails/internal/dom"
	"github.com/yakschuss/dialkit-rails/internal/registry"
)

const page = `<html><body>
<div id="hero" data-dial-kit='{"blur":[16,0,100],"opacity":1,"visible":true,"fire":{"type":"action"}}'></div>
<div class="card" data-dial-kit='{"shadow":{"x":2,"color":"#000"},"mode":{"type":"select","options":["a","b"]}}'></div>
</body></html>`

func sections(t *testing.T) *registry.Registry {
	t.Helper()
	doc, err := dom.ParseString(page)
	require.NoError(t, err)
	r := registry.New()
	require.NoError(t, r.Scan(doc.Root()))
	require.Equal(t, 2, r.Len())
	return r
}

func TestBuild_AllDefaults(t *testing.T) {
	rep := Build(sections(t).Sections())

	require.Zero(t, rep.ChangedCount())
	require.Equal(t, `I tuned the following values using DialKit. Update the styles to use these values:

### #hero

**Kept at defaults:**
- `+"`blur`"+`: 16
- `+"`opacity`"+`: 1
- `+"`visible`"+`: true

### .card

**Kept at defaults:**
- `+"`shadow.x`"+`: 2
- `+"`shadow.color`"+`: #000
- `+"`mode`"+`: a
`, rep.Text())
}

func TestBuild_ChangedBeforeUnchanged(t *testing.T) {
	r := sections(t)
	hero := r.Sections()[0]
	hero.Instances[1].(*control.Slider).SetValue(0.5)
	card := r.Sections()[1]
	shadow := card.Instances[0].(*control.Group)
	shadow.Children()[1].(*control.Color).Commit("#ff0000")

	rep := Build(r.Sections())
	require.Equal(t, 2, rep.ChangedCount())

	heroRep := rep.Sections[0]
	require.Equal(t, []string{"`opacity`: **0.5** (was 1)"}, lineStrings(heroRep.Changed))
	require.Equal(t, []string{"`blur`: 16", "`visible`: true"}, lineStrings(heroRep.Unchanged))

	cardRep := rep.Sections[1]
	require.Equal(t, []string{"`shadow.color`: **#ff0000** (was #000)"}, lineStrings(cardRep.Changed))

	require.Contains(t, rep.Text(), "### #hero\n\n**Changed from defaults:**\n- `opacity`: **0.5** (was 1)\n\n**Kept at defaults:**\n")
}

func TestBuild_ActionOnlySection(t *testing.T) {
	doc, err := dom.ParseString(`<b data-dial-kit='{"go":{"type":"action"}}'></b>`)
	require.NoError(t, err)
	r := registry.New()
	require.NoError(t, r.Scan(doc.Root()))

	rep := Build(r.Sections())
	require.Equal(t, Header+"\n\n### b\n", rep.Text())
}

func TestBuild_Empty(t *testing.T) {
	rep := Build(nil)
	require.Equal(t, Header+"\n", rep.Text())
}

func TestJSON(t *testing.T) {
	r := sections(t)
	r.Sections()[0].Instances[0].(*control.Slider).SetValue(40)

	out, err := Build(r.Sections()).JSON()
	require.NoError(t, err)

	require.True(t, gjson.Valid(out))
	require.Equal(t, float64(40), gjson.Get(out, `\#hero.blur`).Num)
	require.True(t, gjson.Get(out, `\#hero.visible`).Bool())
	require.False(t, gjson.Get(out, `\#hero.fire`).Exists())
	require.Equal(t, "#000", gjson.Get(out, `\.card.shadow.color`).String())
	require.Equal(t, "a", gjson.Get(out, `\.card.mode`).String())

	var keys []string
	gjson.Get(out, `\#hero`).ForEach(func(k, _ gjson.Result) bool {
		keys = append(keys, k.String())
		return true
	})
	require.Equal(t, []string{"blur", "opacity", "visible"}, keys)

	defaults, err := Build(r.Sections()).DefaultsJSON()
	require.NoError(t, err)
	require.Equal(t, float64(16), gjson.Get(defaults, `\#hero.blur`).Num)
}

func TestJSON_DuplicateNames(t *testing.T) {
	doc, err := dom.ParseString(`<li class="row" data-dial-kit='{"gap":4}'></li><li class="row" data-dial-kit='{"gap":4}'></li>`)
	require.NoError(t, err)
	r := registry.New()
	require.NoError(t, r.Scan(doc.Root()))

	out, err := Build(r.Sections()).JSON()
	require.NoError(t, err)
	require.True(t, gjson.Get(out, `\.row`).Exists())
	require.True(t, gjson.Get(out, `\.row 2`).Exists())
}

func TestJSON_DottedKeyStaysFlat(t *testing.T) {
	doc, err := dom.ParseString(`<div id="hero" data-dial-kit='{"0":1,"a":{"b":1},"a.b":2}'></div>`)
	require.NoError(t, err)
	r := registry.New()
	require.NoError(t, r.Scan(doc.Root()))

	rep := Build(r.Sections())
	require.Equal(t, []string{"a", "b"}, rep.Sections[0].all[1].Path)
	require.Equal(t, []string{"a.b"}, rep.Sections[0].all[2].Path)

	out, err := rep.JSON()
	require.NoError(t, err)
	require.Equal(t, float64(1), gjson.Get(out, `\#hero.0`).Num)
	require.Equal(t, float64(1), gjson.Get(out, `\#hero.a.b`).Num)
	require.Equal(t, float64(2), gjson.Get(out, `\#hero.a\.b`).Num)
}

func TestPatch(t *testing.T) {
	r := sections(t)

	patch, err := Build(r.Sections()).Patch()
	require.NoError(t, err)
	require.Empty(t, patch)

	r.Sections()[0].Instances[0].(*control.Slider).SetValue(40)
	patch, err = Build(r.Sections()).Patch()
	require.NoError(t, err)

	require.Contains(t, patch, "--- defaults\n+++ tuned\n")
	require.Contains(t, patch, "-    \"blur\": 16,\n")
	require.Contains(t, patch, "+    \"blur\": 40,\n")
	require.Contains(t, patch, "     \"opacity\": 1,\n")
}

func lineStrings(lines []Line) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.String())
	}
	return out
}
