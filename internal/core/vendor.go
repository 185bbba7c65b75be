package core

import "strings"

// NormalizeVendor derives the lookup key for vendor category memory:
// trimmed, lowercased, inner whitespace collapsed and typographic
// apostrophes folded to ASCII. Empty input has no key.
func NormalizeVendor(vendor string) string {
	fields := strings.Fields(strings.ToLower(vendor))
	if len(fields) == 0 {
		return ""
	}
	return strings.ReplaceAll(strings.Join(fields, " "), "’", "'")
}
