package validation

import "unicode"

// StripUnprintable removes non-printable characters from a cell value,
// allowing common whitespace like space, tab, newline, and carriage return.
// Brokerage exports occasionally carry BOMs and control bytes that would
// otherwise leak into header names and grouping keys.
func StripUnprintable(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsPrint(r) || r == '\t' || r == '\n' || r == '\r' {
			out = append(out, r)
		}
	}
	return string(out)
}
