// Package control builds the live, interactive realization of a
// normalized control tree. Each Instance holds one current value, writes
// it to its Target on every committed change and renders itself as a
// Bubble Tea widget.
//
// Instances are driven from the panel's update loop only. Key messages go
// to the focused instance; mouse messages and the package's own messages
// are broadcast to every instance, which hit-tests them against its
// bubblezone regions.
package control

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	zone "github.com/lrstanley/bubblezone"

	"github.com/yakschuss/dialkit-rails/internal/controlspec"
	"github.com/yakschuss/dialkit-rails/internal/dom"
	"github.com/yakschuss/dialkit-rails/internal/log"
)

// ErrUnknownSpec is returned by Build for a nil or foreign spec.
var ErrUnknownSpec = errors.New("unknown control spec")

// Target receives what controls produce: bound values keyed by leaf
// control key, and action notifications.
type Target interface {
	Bind(key, value string)
	Notify(action string)
}

// ElementTarget binds values as --dk-<key> custom properties on an
// element's inline style and raises actions as bubbling dial-kit:action
// events on it.
type ElementTarget struct {
	El *dom.Element
}

// Bind writes --dk-<key>: value.
func (t ElementTarget) Bind(key, value string) {
	t.El.SetProperty(dom.CustomPropertyPrefix+key, value)
}

// Notify dispatches dial-kit:action with detail {action: key}.
func (t ElementTarget) Notify(action string) {
	t.El.Dispatch(dom.NewCustomEvent(dom.ActionEventType, map[string]any{"action": action}, true))
}

// Widget is the rendering half of an Instance.
type Widget interface {
	Update(msg tea.Msg) tea.Cmd
	View(focused bool, width int) string
}

// Instance is one live control.
type Instance interface {
	Widget
	Key() string
	Spec() controlspec.Spec
	ZoneID() string
	// Value returns the current value. ok is false for actions, which
	// have no value.
	Value() (v any, ok bool)
	// InBounds reports whether a mouse event hit any of the control's
	// regions.
	InBounds(msg tea.MouseMsg) bool
}

// Editor is implemented by controls that capture every key while they
// are being edited (text inputs, open dropdowns).
type Editor interface {
	Editing() bool
	StopEditing()
}

// Build constructs the instance for spec, recursing into groups. Every
// leaf writes its initial value to target during construction.
func Build(key string, spec controlspec.Spec, target Target) (Instance, error) {
	switch s := spec.(type) {
	case controlspec.Slider:
		return NewSlider(key, s, target), nil
	case controlspec.Toggle:
		return NewToggle(key, s, target), nil
	case controlspec.Color:
		return NewColor(key, s, target), nil
	case controlspec.Select:
		return NewSelect(key, s, target), nil
	case controlspec.Text:
		return NewText(key, s, target), nil
	case controlspec.Action:
		return NewAction(key, s, target), nil
	case controlspec.Group:
		return NewGroup(key, s, target)
	default:
		return nil, fmt.Errorf("%w for key %q: %T", ErrUnknownSpec, key, spec)
	}
}

// BuildAll builds the instances of m in declaration order.
func BuildAll(m controlspec.Map, target Target) ([]Instance, error) {
	out := make([]Instance, 0, len(m))
	for _, e := range m {
		inst, err := Build(e.Key, e.Spec, target)
		if err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	return out, nil
}

// base carries what every variant shares.
type base struct {
	key    string
	zoneID string
	target Target
}

func newBase(key string, target Target) base {
	return base{
		key:    key,
		zoneID: "dk-" + uuid.NewString(),
		target: target,
	}
}

func (b *base) Key() string    { return b.key }
func (b *base) ZoneID() string { return b.zoneID }

// subZone names a region inside the control.
func (b *base) subZone(part string) string {
	return b.zoneID + ":" + part
}

func (b *base) bind(v any) {
	value := FormatBound(v)
	b.target.Bind(b.key, value)
	log.Debug(log.CatControl, "bound value", "key", b.key, "value", value)
}

// hit reports whether msg falls inside the zone id.
func hit(id string, msg tea.MouseMsg) bool {
	z := zone.Get(id)
	return z != nil && z.InBounds(msg)
}

// clicked reports a left-button release inside the zone id.
func clicked(id string, msg tea.MouseMsg) bool {
	return isClick(msg) && hit(id, msg)
}

func isClick(msg tea.MouseMsg) bool {
	return msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionRelease
}

var camelBoundary = regexp.MustCompile(`([a-z])([A-Z])`)

// FormatLabel turns a config key into a display label: underscores
// become spaces, camelCase is split and the result is lower-cased
// (border_radius and borderRadius both give "border radius").
func FormatLabel(key string) string {
	label := strings.ReplaceAll(key, "_", " ")
	label = camelBoundary.ReplaceAllString(label, "$1 $2")
	return strings.ToLower(label)
}

// FormatBound renders a value for the style sink and the report: numbers
// in shortest form, strings verbatim.
func FormatBound(v any) string {
	return controlspec.FormatScalar(v)
}
