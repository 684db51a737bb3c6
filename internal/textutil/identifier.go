package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// SanitizeToken converts a string to a lowercase snake_case identifier.
// Letters are lowercased, digits and underscores are kept, everything else
// becomes an underscore. Runs of underscores collapse and edges are trimmed.
func SanitizeToken(value string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.TrimSpace(value) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimRight(b.String(), "_")
}

// HumanizeIdentifier turns script_draft into "Script Draft".
func HumanizeIdentifier(value string) string {
	words := strings.FieldsFunc(value, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	if len(words) == 0 {
		return ""
	}
	return titleCaser.String(strings.ToLower(strings.Join(words, " ")))
}
