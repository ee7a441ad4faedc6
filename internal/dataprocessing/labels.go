package dataprocessing

import "strings"

// CanonicalLabel normalizes a marker channel label: surrounding whitespace is
// trimmed and any enclosing single or double quotes are removed, so
// "'XRxAsis  '" and "XRxAsis" compare equal.
func CanonicalLabel(s string) string {
	s = strings.TrimSpace(s)
	for len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first != '\'' && first != '"') || first != last {
			break
		}
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}
