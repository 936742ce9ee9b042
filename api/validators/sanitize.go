package validators

import "strings"

func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && len(trimmed) > maxLen {
		return trimmed[:maxLen]
	}
	return trimmed
}

// NormalizeKey lowercases and trims names used as lookup keys, such as
// category names and emails.
func NormalizeKey(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}
