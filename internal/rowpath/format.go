package rowpath

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Stringify converts a cell value to the text used for display, filtering and search.
// Records and slices are serialized as compact JSON.
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int8, int16, int32, int64:
		return fmt.Sprintf("%d", v)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case time.Time:
		return v.Format(time.RFC3339)
	case fmt.Stringer:
		return v.String()
	}

	switch KindOf(value) {
	case KindObject, KindArray:
		if compact, err := Compact(value); err == nil {
			return compact
		}
	}
	return fmt.Sprintf("%v", value)
}

// Compact formats a value as single-line JSON
func Compact(value any) (string, error) {
	if value == nil {
		return "null", nil
	}

	jsonBytes, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("failed to compact: %w", err)
	}
	return string(jsonBytes), nil
}

// Format formats a value as pretty-printed JSON
func Format(value any) (string, error) {
	if value == nil {
		return "null", nil
	}

	jsonBytes, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to format: %w", err)
	}
	return string(jsonBytes), nil
}
