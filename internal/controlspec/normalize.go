package controlspec

import (
	"math"
	"regexp"
	"strings"
)

// smartSteps holds the step used for well-known keys. It is a hint only
// and never changes which variant a value becomes.
var smartSteps = map[string]float64{
	"blur":          1,
	"opacity":       0.01,
	"scale":         0.1,
	"rotation":      1,
	"rotate":        1,
	"border_radius": 1,
	"gap":           1,
	"padding":       1,
	"delay":         0.1,
	"duration":      0.1,
	"stagger":       0.01,
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{3,8}$`)

// IsHexColor reports whether s is '#' followed by 3 to 8 hex digits.
func IsHexColor(s string) bool {
	return hexColor.MatchString(s)
}

// SmartStep returns the step registered for key, if any.
func SmartStep(key string) (float64, bool) {
	step, ok := smartSteps[key]
	return step, ok
}

// NormalizeJSON decodes payload and normalizes it.
func NormalizeJSON(payload string) (Map, error) {
	raw, err := Decode(payload)
	if err != nil {
		return nil, err
	}
	return Normalize(raw)
}

// Normalize converts a raw config into its canonical control tree. The
// first value that matches no accepted shape aborts the whole map. An
// empty key names no property and is rejected.
func Normalize(raw Fields) (Map, error) {
	out := make(Map, 0, len(raw))
	for _, f := range raw {
		if f.Key == "" {
			return nil, shapeError(f.Key, f.Value, "control key must not be empty")
		}
		spec, err := normalizeValue(f.Key, f.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, Entry{Key: f.Key, Spec: spec})
	}
	return out, nil
}

func normalizeValue(key string, value any) (Spec, error) {
	switch v := value.(type) {
	case []any:
		return normalizeArray(key, v)
	case bool:
		return Toggle{Default: v}, nil
	case string:
		if IsHexColor(v) {
			return Color{Default: v}, nil
		}
		return Text{Default: v}, nil
	case float64:
		lo, hi := InferRange(v)
		return Slider{Default: v, Min: lo, Max: hi, Step: stepFor(key, v)}, nil
	case int:
		return normalizeValue(key, float64(v))
	case Fields:
		if hasTypeKey(v) {
			return normalizeExplicit(key, v)
		}
		controls, err := Normalize(v)
		if err != nil {
			return nil, qualify(key, err)
		}
		return Group{Controls: controls}, nil
	default:
		return nil, shapeError(key, value, "expected a number, boolean, string, [default, min, max] array or object")
	}
}

func hasTypeKey(f Fields) bool {
	for _, field := range f {
		if strings.EqualFold(field.Key, "type") {
			return true
		}
	}
	return false
}

func normalizeArray(key string, items []any) (Spec, error) {
	if len(items) != 3 && len(items) != 4 {
		return nil, shapeError(key, items,
			"array must have 3 or 4 elements: [default, min, max] or [default, min, max, step]")
	}
	nums := make([]float64, len(items))
	for i, item := range items {
		n, ok := item.(float64)
		if !ok {
			return nil, shapeError(key, items, "slider array element %d must be a number", i)
		}
		nums[i] = n
	}
	s := Slider{Default: nums[0], Min: nums[1], Max: nums[2]}
	if len(nums) == 4 {
		s.Step = nums[3]
	} else {
		s.Step = stepFor(key, nums[0])
	}
	return s, nil
}

func stepFor(key string, def float64) float64 {
	if step, ok := smartSteps[key]; ok {
		return step
	}
	return InferStep(def)
}

// InferStep returns 0.01 for a non-integral value and 1 otherwise.
func InferStep(v float64) float64 {
	if v != math.Trunc(v) {
		return 0.01
	}
	return 1
}

// InferRange returns the slider range inferred from a bare number:
// [-100, 100] around zero, [0, 3v] for positives, [3v, 0] for negatives.
func InferRange(v float64) (lo, hi float64) {
	switch {
	case v == 0:
		return -100, 100
	case v > 0:
		return 0, v * 3
	default:
		return v * 3, 0
	}
}
