package phone

import "strings"

// Digits strips every non-digit character from a phone number, producing the
// canonical lookup key. "+55 (11) 91234-5678" and "5511912345678" both map to
// "5511912345678".
func Digits(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Valid reports whether a normalized number has a plausible length.
func Valid(digits string) bool {
	return len(digits) >= 8 && len(digits) <= 15
}
