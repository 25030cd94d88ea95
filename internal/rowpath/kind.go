package rowpath

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
)

// ValueKind classifies a cell value for comparison
type ValueKind int

const (
	KindNull ValueKind = iota
	KindNumber
	KindString
	KindBool
	KindObject
	KindArray
	KindOther
)

// String returns the kind name
func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "boolean"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// KindOf returns the kind of a value
func KindOf(value any) ValueKind {
	switch value.(type) {
	case nil:
		return KindNull
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number:
		return KindNumber
	case string:
		return KindString
	case bool:
		return KindBool
	case map[string]any:
		return KindObject
	case []any:
		return KindArray
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Map:
		return KindObject
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return KindString
		}
		return KindArray
	case reflect.Pointer:
		if rv.IsNil() {
			return KindNull
		}
		return KindOf(rv.Elem().Interface())
	}
	return KindOther
}

// ToFloat64 converts numeric values and numeric strings to float64.
// The boolean reports whether the conversion was successful.
func ToFloat64(v any) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint8:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	case float32:
		return float64(val), true
	case float64:
		return val, true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
