package controlspec

import (
	"strings"
)

// canonicalFields lower-cases every key and the "type" value. Values are
// otherwise kept verbatim.
func canonicalFields(raw Fields) Fields {
	out := make(Fields, 0, len(raw))
	for _, f := range raw {
		key := strings.ToLower(f.Key)
		val := f.Value
		if key == "type" {
			if s, ok := val.(string); ok {
				val = strings.ToLower(s)
			}
		}
		out = append(out, Field{Key: key, Value: val})
	}
	return out
}

// normalizeExplicit builds the variant named by an explicit "type" field.
// It is the only way to get Select and Action controls.
func normalizeExplicit(key string, raw Fields) (Spec, error) {
	fields := canonicalFields(raw)
	typeVal, _ := fields.Get("type")
	typeName, ok := typeVal.(string)
	if !ok {
		return nil, shapeError(key, typeVal, "type must be a string")
	}

	switch Kind(typeName) {
	case KindSlider:
		return explicitSlider(key, fields)
	case KindToggle:
		def, err := optionalBool(key, fields, "default", false)
		if err != nil {
			return nil, err
		}
		return Toggle{Default: def, Raw: fields}, nil
	case KindColor:
		def, err := optionalString(key, fields, "default", "#000000")
		if err != nil {
			return nil, err
		}
		return Color{Default: def, Raw: fields}, nil
	case KindSelect:
		return explicitSelect(key, fields)
	case KindText:
		def, err := optionalString(key, fields, "default", "")
		if err != nil {
			return nil, err
		}
		placeholder, err := optionalString(key, fields, "placeholder", "")
		if err != nil {
			return nil, err
		}
		return Text{Default: def, Placeholder: placeholder, Raw: fields}, nil
	case KindAction:
		label, err := optionalString(key, fields, "label", "")
		if err != nil {
			return nil, err
		}
		return Action{Label: label, Raw: fields}, nil
	case KindGroup:
		g := Group{Controls: Map{}, Raw: fields}
		if v, ok := fields.Get("controls"); ok {
			sub, isObj := v.(Fields)
			if !isObj {
				return nil, shapeError(key, v, "group controls must be an object")
			}
			controls, err := Normalize(sub)
			if err != nil {
				return nil, qualify(key, err)
			}
			g.Controls = controls
		}
		return g, nil
	default:
		return nil, shapeError(key, typeName,
			"unknown control type (want slider, toggle, color, select, text, action or group)")
	}
}

func explicitSlider(key string, fields Fields) (Spec, error) {
	def, err := optionalNumber(key, fields, "default", 0)
	if err != nil {
		return nil, err
	}
	lo, hi := InferRange(def)
	s := Slider{Default: def, Raw: fields}
	if s.Min, err = optionalNumber(key, fields, "min", lo); err != nil {
		return nil, err
	}
	if s.Max, err = optionalNumber(key, fields, "max", hi); err != nil {
		return nil, err
	}
	if s.Step, err = optionalNumber(key, fields, "step", 1); err != nil {
		return nil, err
	}
	if s.Step == 0 {
		s.Step = 1
	}
	return s, nil
}

func explicitSelect(key string, fields Fields) (Spec, error) {
	s := Select{Raw: fields}
	if v, ok := fields.Get("options"); ok {
		items, isArr := v.([]any)
		if !isArr {
			return nil, shapeError(key, v, "select options must be an array")
		}
		for _, item := range items {
			opt, err := parseOption(key, item)
			if err != nil {
				return nil, err
			}
			s.Options = append(s.Options, opt)
		}
	}

	def, ok := fields.Get("default")
	switch {
	case ok && def != nil:
		if !isScalar(def) {
			return nil, shapeError(key, def, "select default must be a string, number or boolean")
		}
		s.Default = def
	case len(s.Options) > 0:
		s.Default = s.Options[0].Value
	}
	return s, nil
}

func parseOption(key string, item any) (Option, error) {
	switch v := item.(type) {
	case Fields:
		val, ok := v.Get("value")
		if !ok || !isScalar(val) {
			return Option{}, shapeError(key, item, "select option objects need a scalar value")
		}
		label := FormatScalar(val)
		if l, ok := v.Get("label"); ok && l != nil {
			label = FormatScalar(l)
		}
		return Option{Value: val, Label: label}, nil
	default:
		if !isScalar(item) {
			return Option{}, shapeError(key, item, "select options must be scalars or {value, label} objects")
		}
		return Option{Value: item, Label: FormatScalar(item)}, nil
	}
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, float64, bool:
		return true
	}
	return false
}

func optionalNumber(key string, fields Fields, name string, fallback float64) (float64, error) {
	v, ok := fields.Get(name)
	if !ok || v == nil {
		return fallback, nil
	}
	n, isNum := v.(float64)
	if !isNum {
		return 0, shapeError(key, v, "%s must be a number", name)
	}
	return n, nil
}

func optionalBool(key string, fields Fields, name string, fallback bool) (bool, error) {
	v, ok := fields.Get(name)
	if !ok || v == nil {
		return fallback, nil
	}
	b, isBool := v.(bool)
	if !isBool {
		return false, shapeError(key, v, "%s must be a boolean", name)
	}
	return b, nil
}

func optionalString(key string, fields Fields, name string, fallback string) (string, error) {
	v, ok := fields.Get(name)
	if !ok || v == nil {
		return fallback, nil
	}
	s, isStr := v.(string)
	if !isStr {
		return "", shapeError(key, v, "%s must be a string", name)
	}
	return s, nil
}
