package rtdb

import (
	"encoding/json"
	"math"
	"strconv"
)

// Object returns v as a JSON object, or nil when v is anything else
// (absent, null, a primitive or a list).
func Object(v any) map[string]any {
	obj, _ := v.(map[string]any)
	return obj
}

// Truthy applies JavaScript truthiness to a decoded JSON value, which is how
// values written by the web and mobile clients are interpreted.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0 && !math.IsNaN(t)
	case json.Number:
		f, err := t.Float64()
		return err != nil || (f != 0 && !math.IsNaN(f))
	case int:
		return t != 0
	case int64:
		return t != 0
	default:
		return true
	}
}

// Text renders a scalar database value as text. Numbers use the shortest
// decimal representation, so 123 becomes "123". Objects and lists are not
// scalars and report ok=false.
func Text(v any) (s string, ok bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case float64:
		return formatFloat(t), true
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return formatFloat(f), true
		}
		return t.String(), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	default:
		return "", false
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
