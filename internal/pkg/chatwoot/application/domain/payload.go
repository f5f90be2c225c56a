package chatwoot

import (
	"fmt"
	"strings"
)

// Payload is a raw inbox-platform webhook body. Several historical layouts
// are in the wild, so fields are reached through tolerant path lookups
// instead of a rigid struct.
type Payload map[string]any

// Value walks the nested path and returns the raw value, or nil.
func (p Payload) Value(path ...string) any {
	var cur any = map[string]any(p)
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = m[key]
		if !ok {
			return nil
		}
	}
	return cur
}

// String returns the value at path rendered as a trimmed string. Numbers are
// formatted without a decimal point when integral; everything else that is
// not a string yields "".
func (p Payload) String(path ...string) string {
	switch v := p.Value(path...).(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%v", v)
	case bool:
		return fmt.Sprintf("%t", v)
	default:
		return ""
	}
}

// Bool returns the value at path as a boolean, tolerating string spellings.
func (p Payload) Bool(path ...string) bool {
	switch v := p.Value(path...).(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true")
	default:
		return false
	}
}
