package controlspec

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/sjson"
)

// Encode writes m in the canonical wire form, one object per key with an
// explicit "type". Specs that came from an explicit map are written with
// their original fields; a group's controls are always written canonical.
func Encode(m Map) (string, error) {
	out := "{}"
	for _, e := range m {
		raw, err := encodeSpec(e.Spec)
		if err != nil {
			return "", err
		}
		if out, err = setMember(out, e.Key, raw); err != nil {
			return "", err
		}
	}
	return out, nil
}

func encodeSpec(spec Spec) (string, error) {
	if src := spec.Source(); src != nil {
		return encodeSource(spec, src)
	}

	obj := "{}"
	set := func(path string, v any) {
		if obj2, err := sjson.Set(obj, path, v); err == nil {
			obj = obj2
		}
	}
	set("type", string(spec.Kind()))

	switch s := spec.(type) {
	case Slider:
		set("default", s.Default)
		set("min", s.Min)
		set("max", s.Max)
		set("step", s.Step)
	case Toggle:
		set("default", s.Default)
	case Color:
		set("default", s.Default)
	case Text:
		set("default", s.Default)
		if s.Placeholder != "" {
			set("placeholder", s.Placeholder)
		}
	case Select:
		set("default", s.Default)
		raw, err := encodeOptions(s.Options)
		if err != nil {
			return "", err
		}
		var setErr error
		if obj, setErr = sjson.SetRaw(obj, "options", raw); setErr != nil {
			return "", setErr
		}
	case Action:
		if s.Label != "" {
			set("label", s.Label)
		}
	case Group:
		controls, err := Encode(s.Controls)
		if err != nil {
			return "", err
		}
		var setErr error
		if obj, setErr = sjson.SetRaw(obj, "controls", controls); setErr != nil {
			return "", setErr
		}
	}
	return obj, nil
}

func encodeSource(spec Spec, src Fields) (string, error) {
	obj := "{}"
	for _, f := range src {
		var raw string
		var err error
		if g, ok := spec.(Group); ok && f.Key == "controls" {
			raw, err = Encode(g.Controls)
		} else {
			raw, err = EncodeValue(f.Value)
		}
		if err != nil {
			return "", err
		}
		if obj, err = setMember(obj, f.Key, raw); err != nil {
			return "", err
		}
	}
	return obj, nil
}

// setMember sets the member key of the JSON object obj to raw. sjson paths
// cannot name the empty key, so that member is appended by hand.
func setMember(obj, key, raw string) (string, error) {
	if key != "" {
		return sjson.SetRaw(obj, EscapePath(key), raw)
	}
	body := strings.TrimSpace(obj)
	if !strings.HasSuffix(body, "}") {
		return "", fmt.Errorf("set empty key: %q is not an object", obj)
	}
	body = strings.TrimSpace(body[:len(body)-1])
	if !strings.HasSuffix(body, "{") {
		body += ","
	}
	return body + `"":` + raw + "}", nil
}

func encodeOptions(options []Option) (string, error) {
	arr := "[]"
	for _, opt := range options {
		var err error
		if FormatScalar(opt.Value) == opt.Label {
			arr, err = sjson.Set(arr, "-1", opt.Value)
		} else {
			item := "{}"
			if item, err = sjson.Set(item, "value", opt.Value); err != nil {
				return "", err
			}
			if item, err = sjson.Set(item, "label", opt.Label); err != nil {
				return "", err
			}
			arr, err = sjson.SetRaw(arr, "-1", item)
		}
		if err != nil {
			return "", err
		}
	}
	return arr, nil
}

// EncodeValue writes a raw decoded value (nil, bool, float64, string,
// []any or Fields) as JSON.
func EncodeValue(v any) (string, error) {
	switch val := v.(type) {
	case Fields:
		obj := "{}"
		for _, f := range val {
			raw, err := EncodeValue(f.Value)
			if err != nil {
				return "", err
			}
			if obj, err = setMember(obj, f.Key, raw); err != nil {
				return "", err
			}
		}
		return obj, nil
	case []any:
		arr := "[]"
		for _, item := range val {
			raw, err := EncodeValue(item)
			if err != nil {
				return "", err
			}
			if arr, err = sjson.SetRaw(arr, "-1", raw); err != nil {
				return "", err
			}
		}
		return arr, nil
	case nil:
		return "null", nil
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

var pathEscaper = strings.NewReplacer(
	`\`, `\\`,
	`.`, `\.`,
	`*`, `\*`,
	`?`, `\?`,
	`|`, `\|`,
	`#`, `\#`,
	`@`, `\@`,
	`:`, `\:`,
)

// EscapePath escapes key for use as a single sjson path component.
func EscapePath(key string) string {
	return pathEscaper.Replace(key)
}
