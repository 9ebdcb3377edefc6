package utils

const ellipsis = "..."

// Truncate shortens s to at most maxLen runes, ending it with "..." when
// anything was cut. The chat page uses it to keep notices on one line.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}

	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= len(ellipsis) {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-len(ellipsis)]) + ellipsis
}
