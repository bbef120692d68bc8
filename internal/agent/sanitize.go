package agent

import "strings"

// strippedChars are removed from untrusted text before it reaches the model
// or the database. Each can carry meaning in a downstream shell, template or
// query context.
const strippedChars = "<>{}\\|;#*~`$^&[]"

// Sanitize removes denylisted characters from input, truncates the result to
// maxLength characters and trims surrounding whitespace. It is total and
// idempotent; empty input yields an empty string.
func Sanitize(input string, maxLength int) string {
	if input == "" || maxLength <= 0 {
		return ""
	}

	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(strippedChars, r) {
			return -1
		}
		return r
	}, input)

	if runes := []rune(cleaned); len(runes) > maxLength {
		cleaned = string(runes[:maxLength])
	}

	return strings.TrimSpace(cleaned)
}
