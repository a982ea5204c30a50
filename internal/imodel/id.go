package imodel

import (
	"strconv"
	"strings"
)

// ID is an Id64 string in its canonical lower-case hexadecimal form ("0x1f").
type ID string

// InvalidID is the canonical representation of an absent identifier.
const InvalidID ID = "0"

// IDFromInt converts a stored row id into its canonical form. Ids with a
// briefcase id at or above 0x800000 in the high 24 bits are stored as
// negative int64 values and read back as their unsigned bit pattern.
func IDFromInt(v int64) ID {
	if v == 0 {
		return InvalidID
	}
	return ID("0x" + strconv.FormatUint(uint64(v), 16))
}

// ParseID normalizes a value read from a query result. Integers, hexadecimal
// strings ("0x1F") and decimal strings are accepted; anything else yields
// InvalidID.
func ParseID(v any) ID {
	switch val := v.(type) {
	case ID:
		return ParseID(string(val))
	case int64:
		return IDFromInt(val)
	case int:
		return IDFromInt(int64(val))
	case int32:
		return IDFromInt(int64(val))
	case float64:
		return IDFromInt(int64(val))
	case []byte:
		return ParseID(string(val))
	case string:
		s := strings.TrimSpace(strings.ToLower(val))
		if s == "" {
			return InvalidID
		}
		if hex, ok := strings.CutPrefix(s, "0x"); ok {
			n, err := strconv.ParseUint(hex, 16, 64)
			if err != nil {
				return InvalidID
			}
			return IDFromInt(int64(n))
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return IDFromInt(n)
		}
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return InvalidID
		}
		return IDFromInt(int64(n))
	default:
		return InvalidID
	}
}

// Valid reports whether the id refers to an element.
func (id ID) Valid() bool {
	return id != "" && id != InvalidID
}

// Int64 returns the numeric row id, or 0 when the id is invalid.
func (id ID) Int64() int64 {
	if !id.Valid() {
		return 0
	}
	n, err := strconv.ParseUint(strings.TrimPrefix(string(id), "0x"), 16, 64)
	if err != nil {
		return 0
	}
	return int64(n)
}

func (id ID) String() string {
	return string(id)
}

// IDStrings converts ids for logging payloads.
func IDStrings(ids []ID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
