package controlspec

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/tidwall/gjson"
)

// Field is one key/value pair of a raw JSON object. Value is one of
// nil, bool, float64, string, []any or Fields.
type Field struct {
	Key   string
	Value any
}

// Fields is an ordered JSON object.
type Fields []Field

// Get returns the value stored under key. When a key repeats, the last
// occurrence wins, matching JSON object semantics.
func (f Fields) Get(key string) (any, bool) {
	for i := len(f) - 1; i >= 0; i-- {
		if f[i].Key == key {
			return f[i].Value, true
		}
	}
	return nil, false
}

// Has reports whether key is present.
func (f Fields) Has(key string) bool {
	_, ok := f.Get(key)
	return ok
}

var (
	// ErrSyntax is returned by Decode for text that is not valid JSON.
	ErrSyntax = errors.New("invalid JSON")
	// ErrNotObject is returned by Decode for valid JSON that is not an object.
	ErrNotObject = errors.New("config must be a JSON object")
)

// Decode parses a JSON object payload into Fields, preserving key order.
func Decode(payload string) (Fields, error) {
	if !gjson.Valid(payload) {
		return nil, ErrSyntax
	}
	res := gjson.Parse(payload)
	if !res.IsObject() {
		return nil, fmt.Errorf("%w: got %s", ErrNotObject, res.Type)
	}
	return decodeObject(res), nil
}

func decodeObject(res gjson.Result) Fields {
	fields := Fields{}
	res.ForEach(func(key, value gjson.Result) bool {
		fields = append(fields, Field{Key: key.String(), Value: decodeValue(value)})
		return true
	})
	return fields
}

func decodeValue(res gjson.Result) any {
	switch {
	case res.IsObject():
		return decodeObject(res)
	case res.IsArray():
		items := []any{}
		res.ForEach(func(_, value gjson.Result) bool {
			items = append(items, decodeValue(value))
			return true
		})
		return items
	}
	switch res.Type {
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.Number:
		return res.Num
	case gjson.String:
		return res.Str
	default:
		return nil
	}
}

// FormatNumber renders n in its shortest decimal form: 16, 0.5, -300.
func FormatNumber(n float64) string {
	if math.IsInf(n, 0) || math.IsNaN(n) {
		return strconv.FormatFloat(n, 'g', -1, 64)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// FormatScalar renders a JSON scalar the way it is shown to developers:
// numbers in shortest form, strings verbatim, booleans as true/false.
func FormatScalar(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return FormatNumber(val)
	case int:
		return strconv.Itoa(val)
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}

// describe renders a raw value for error messages.
func describe(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(val)
	case []any:
		return fmt.Sprintf("array of %d elements", len(val))
	case Fields:
		return "object"
	default:
		return FormatScalar(val)
	}
}
