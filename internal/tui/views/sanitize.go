package views

import "strings"

// sanitizeForTerminal drops the emoji modifiers and joiners that tcell
// renders with the wrong cell width, so a name like "🙏🏽" keeps its base
// glyph only.
func sanitizeForTerminal(s string) string {
	return strings.Map(func(r rune) rune {
		if isWidthBreaking(r) {
			return -1
		}
		return r
	}, s)
}

func isWidthBreaking(r rune) bool {
	switch {
	case r >= 0x1F3FB && r <= 0x1F3FF: // skin tone modifiers
		return true
	case r == 0x200D: // zero width joiner
		return true
	case r >= 0xFE00 && r <= 0xFE0F, r >= 0xE0100 && r <= 0xE01EF: // variation selectors
		return true
	}
	return false
}
