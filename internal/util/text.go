package util

import "strings"

// SanitizeUTF8 drops invalid byte sequences and NUL bytes so the text is safe
// for storage backends that reject them.
func SanitizeUTF8(value string) string {
	if value == "" {
		return value
	}
	sanitized := strings.ToValidUTF8(value, "")
	return strings.ReplaceAll(sanitized, "\x00", "")
}

// Truncate shortens a string to at most max runes, appending an ellipsis
// when anything was cut. Used to keep raw model output out of log lines.
func Truncate(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max]) + "..."
}
