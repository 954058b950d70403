// Package textutils provides name canonicalization and label-anchored field
// extraction from free-form reimbursement form text.
package textutils

import (
	"regexp"
	"strings"
)

var nonNameChars = regexp.MustCompile(`[^a-z ]`)

// NameKey canonicalizes a staff name for equality checks across formatting
// styles: lowercased, letters and spaces only, whitespace collapsed.
func NameKey(raw string) string {
	key := strings.ToLower(raw)
	key = nonNameChars.ReplaceAllString(key, " ")
	return strings.Join(strings.Fields(key), " ")
}

// FormatName converts "Last, First" style names to display form
// "First Last". Names without a comma pass through trimmed.
func FormatName(raw string) string {
	name := strings.TrimSpace(raw)
	if idx := strings.Index(name, ","); idx >= 0 {
		last := strings.TrimSpace(name[:idx])
		first := strings.TrimSpace(name[idx+1:])
		if first != "" && last != "" {
			return first + " " + last
		}
	}
	return name
}

// SameName reports whether two raw names refer to the same person once
// display formatting and punctuation are stripped.
func SameName(a, b string) bool {
	return NameKey(FormatName(a)) != "" && NameKey(FormatName(a)) == NameKey(FormatName(b))
}
