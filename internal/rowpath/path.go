package rowpath

import (
	"reflect"
	"strings"
)

// Path represents a dotted field accessor (e.g., address.city)
type Path struct {
	Parts []string
}

// Parse splits an accessor on "."
func Parse(accessor string) Path {
	if accessor == "" {
		return Path{}
	}
	return Path{Parts: strings.Split(accessor, ".")}
}

// String returns the dotted notation
func (p Path) String() string {
	return strings.Join(p.Parts, ".")
}

// Resolve walks the record field by field and returns the terminal value.
// The boolean is false when any segment is absent or a non-record is hit midway.
func Resolve(record map[string]any, accessor string) (any, bool) {
	return ResolvePath(record, Parse(accessor))
}

// ResolvePath is Resolve for an already parsed path
func ResolvePath(record map[string]any, path Path) (any, bool) {
	if record == nil || len(path.Parts) == 0 {
		return nil, false
	}

	var current any = record
	for _, part := range path.Parts {
		node, ok := asRecord(current)
		if !ok {
			return nil, false
		}
		val, ok := node[part]
		if !ok {
			return nil, false
		}
		current = val
	}

	return current, true
}

// Flatten collapses nested records into a mapping from dotted path to leaf value.
// Slices are opaque leaves and are never traversed.
func Flatten(record map[string]any) map[string]any {
	flat := make(map[string]any, len(record))
	flattenRecursive(record, "", flat)
	return flat
}

func flattenRecursive(record map[string]any, prefix string, flat map[string]any) {
	for key, val := range record {
		name := key
		if prefix != "" {
			name = prefix + "." + key
		}

		if nested, ok := asRecord(val); ok && nested != nil {
			flattenRecursive(nested, name, flat)
			continue
		}
		flat[name] = val
	}
}

// asRecord reports whether v is a plain nested record
func asRecord(v any) (map[string]any, bool) {
	switch rec := v.(type) {
	case nil:
		return nil, false
	case map[string]any:
		return rec, true
	}

	// Named record types (e.g. models.Row) and map[string]T
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	if rv.IsNil() {
		return nil, true
	}
	rec := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		rec[iter.Key().String()] = iter.Value().Interface()
	}
	return rec, true
}
