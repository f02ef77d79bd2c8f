package content

import (
	"strconv"
	"strings"
)

// Get walks a dot-separated path into the document and returns the value at
// the end of it. The second return is false the moment any intermediate key
// is missing or not a mapping; absence is an answer, never a panic.
func Get(d Document, path string) (any, bool) {
	var current any = d
	for _, key := range strings.Split(path, ".") {
		node, ok := current.(map[string]any)
		if !ok || node == nil {
			return nil, false
		}
		value, ok := node[key]
		if !ok {
			return nil, false
		}
		current = value
	}
	return current, true
}

// Set walks the same path, creating an empty mapping at every missing
// intermediate key, and assigns value at the final key. An intermediate that
// holds a non-mapping value is overwritten with a mapping so the write always
// succeeds. The document is mutated in place.
func Set(d Document, path string, value any) {
	if d == nil || path == "" {
		return
	}
	keys := strings.Split(path, ".")
	node := d
	for _, key := range keys[:len(keys)-1] {
		child, ok := node[key].(map[string]any)
		if !ok {
			child = map[string]any{}
			node[key] = child
		}
		node = child
	}
	node[keys[len(keys)-1]] = value
}

// CoerceNumber converts a numeric form field's text to a float64 before it
// is stored, matching how the editor treats number-typed inputs. Non-numeric
// text and non-numeric fields pass through unchanged; empty string stays a
// valid value distinct from absence.
func CoerceNumber(value any, numeric bool) any {
	if !numeric {
		return value
	}
	text, ok := value.(string)
	if !ok {
		return value
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return value
	}
	return parsed
}
