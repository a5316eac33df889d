// Package controlspec defines the canonical control tree and the
// normalizer that produces it from shorthand configuration.
//
// A raw config is an ordered JSON object; each value is a number, a
// boolean, a string, a 3/4-element array or a nested object. Normalize
// turns it into a Map of Spec values, a closed union of Slider, Toggle,
// Color, Select, Text, Action and Group.
package controlspec

// Kind names a control variant. The string values are the wire "type"
// field.
type Kind string

const (
	KindSlider Kind = "slider"
	KindToggle Kind = "toggle"
	KindColor  Kind = "color"
	KindSelect Kind = "select"
	KindText   Kind = "text"
	KindAction Kind = "action"
	KindGroup  Kind = "group"
)

// Spec is one canonical control description. The set of implementations
// is closed; switch on the concrete type.
type Spec interface {
	Kind() Kind
	// Source returns the original fields of an explicit "type" map, with
	// keys lower-cased, or nil when the spec was inferred from shorthand.
	Source() Fields
	isSpec()
}

// Entry is one keyed control inside a Map.
type Entry struct {
	Key  string
	Spec Spec
}

// Map is an ordered mapping from config key to Spec. Order is the order
// of the keys in the source payload.
type Map []Entry

// Get returns the spec stored under key.
func (m Map) Get(key string) (Spec, bool) {
	for _, e := range m {
		if e.Key == key {
			return e.Spec, true
		}
	}
	return nil, false
}

// Keys returns the keys in declaration order.
func (m Map) Keys() []string {
	keys := make([]string, len(m))
	for i, e := range m {
		keys[i] = e.Key
	}
	return keys
}

// Slider is a numeric range control.
type Slider struct {
	Default float64
	Min     float64
	Max     float64
	Step    float64
	Raw     Fields
}

// Toggle is a boolean switch.
type Toggle struct {
	Default bool
	Raw     Fields
}

// Color is a hex colour. Default keeps the author's form (#fff stays #fff).
type Color struct {
	Default string
	Raw     Fields
}

// Option is one choice of a Select. Value is a JSON scalar: string,
// float64 or bool.
type Option struct {
	Value any
	Label string
}

// Select is a single choice among ordered options.
type Select struct {
	Default any
	Options []Option
	Raw     Fields
}

// Text is a free-form string.
type Text struct {
	Default     string
	Placeholder string
	Raw         Fields
}

// Action is a stateless button.
type Action struct {
	Label string
	Raw   Fields
}

// Group nests controls under one collapsible heading.
type Group struct {
	Controls Map
	Raw      Fields
}

func (Slider) Kind() Kind { return KindSlider }
func (Toggle) Kind() Kind { return KindToggle }
func (Color) Kind() Kind  { return KindColor }
func (Select) Kind() Kind { return KindSelect }
func (Text) Kind() Kind   { return KindText }
func (Action) Kind() Kind { return KindAction }
func (Group) Kind() Kind  { return KindGroup }

func (s Slider) Source() Fields { return s.Raw }
func (s Toggle) Source() Fields { return s.Raw }
func (s Color) Source() Fields  { return s.Raw }
func (s Select) Source() Fields { return s.Raw }
func (s Text) Source() Fields   { return s.Raw }
func (s Action) Source() Fields { return s.Raw }
func (s Group) Source() Fields  { return s.Raw }

func (Slider) isSpec() {}
func (Toggle) isSpec() {}
func (Color) isSpec()  {}
func (Select) isSpec() {}
func (Text) isSpec()   {}
func (Action) isSpec() {}
func (Group) isSpec()  {}

// OptionLabel returns the display label for value among options, or the
// value itself when no option matches.
func OptionLabel(value any, options []Option) string {
	for _, opt := range options {
		if opt.Value == value {
			return opt.Label
		}
	}
	return FormatScalar(value)
}
