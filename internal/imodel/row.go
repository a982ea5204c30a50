package imodel

import "strings"

// Row maps lower-cased column names to values.
type Row map[string]any

// Value returns the value stored under name, matching case-insensitively.
func (r Row) Value(name string) (any, bool) {
	v, ok := r[strings.ToLower(name)]
	return v, ok
}

// ID returns the column as an ID.
func (r Row) ID(name string) ID {
	v, ok := r.Value(name)
	if !ok {
		return InvalidID
	}
	return ParseID(v)
}

// String returns the column as text; NULL and missing columns are empty.
func (r Row) String(name string) string {
	v, ok := r.Value(name)
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	default:
		return ""
	}
}

// Bool returns the column as a boolean; SQLite stores these as integers.
func (r Row) Bool(name string) bool {
	v, ok := r.Value(name)
	if !ok {
		return false
	}
	switch val := v.(type) {
	case bool:
		return val
	case int64:
		return val != 0
	case int:
		return val != 0
	case []byte:
		return len(val) > 0 && string(val) != "0"
	case string:
		return val != "" && val != "0" && !strings.EqualFold(val, "false")
	default:
		return false
	}
}
