// Package config holds the value conversions shared by ConfigStore adapters.
// Decoded TOML yields int64 and []any where callers expect int and []string;
// these helpers normalise both shapes.
package config

import (
	"sort"
	"strings"
)

// String returns v as a string, or "" when it is not one.
func String(v any) string {
	s, _ := v.(string)
	return s
}

// Int returns v as an int, or 0 when it is not numeric.
func Int(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

// Bool returns v as a bool, or false when it is not one.
func Bool(v any) bool {
	b, _ := v.(bool)
	return b
}

// Strings returns v as a string slice, dropping non-string items.
// Returns nil when v is not a slice.
func Strings(v any) []string {
	switch s := v.(type) {
	case []string:
		return append([]string(nil), s...)
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}

// Flatten converts nested tables to dot-notation keys:
// {"filter": {"strict": true}} becomes {"filter.strict": true}.
func Flatten(m map[string]any) map[string]any {
	out := make(map[string]any)
	flatten(out, m, "")
	return out
}

func flatten(out, m map[string]any, prefix string) {
	for key, value := range m {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok {
			flatten(out, nested, full)
			continue
		}
		out[full] = value
	}
}

// Nest is the inverse of Flatten. When a key is both a value and a table
// prefix, the table wins and the value is dropped.
func Nest(flat map[string]any) map[string]any {
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	// shorter keys first so tables overwrite scalar parents
	sort.Slice(keys, func(i, j int) bool {
		return strings.Count(keys[i], ".") < strings.Count(keys[j], ".")
	})

	out := make(map[string]any)
	for _, key := range keys {
		parts := strings.Split(key, ".")
		table := out
		for _, part := range parts[:len(parts)-1] {
			next, ok := table[part].(map[string]any)
			if !ok {
				next = make(map[string]any)
				table[part] = next
			}
			table = next
		}
		leaf := parts[len(parts)-1]
		if _, isTable := table[leaf].(map[string]any); isTable {
			continue
		}
		table[leaf] = flat[key]
	}
	return out
}
