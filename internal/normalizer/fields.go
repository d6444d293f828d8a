package normalizer

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// object returns v as a JSON object, or nil when it is anything else.
func object(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// array returns v as a JSON array, or nil when it is anything else.
func array(v any) []any {
	a, _ := v.([]any)
	return a
}

// str returns the string under key, or "" when missing or not a string.
func str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// number coerces JSON numbers and numeric strings. NaN and infinities are rejected.
func number(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func truthy(v any) bool {
	b, _ := v.(bool)
	return b
}
