package text

import (
	"strings"

	"golang.org/x/image/font"
)

// Wrap breaks s into lines whose measured width stays within maxWidth.
// Words are split on whitespace and packed greedily. A word wider than
// maxWidth on its own is emitted as a line unmodified. Empty input yields a
// single empty line, so lines[0] is always valid.
func Wrap(face font.Face, s string, maxWidth int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := ""
	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if Width(face, candidate) <= maxWidth {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
			current = word
			continue
		}
		// Oversized word with nothing pending.
		lines = append(lines, word)
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
