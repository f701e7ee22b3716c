package scansion

import (
	"strings"
	"unicode"
)

// isLineDelimiter reports whether r ends a metrical line: line breaks, the
// ASCII bar used for a daṇḍa in Latin text, and the single and double daṇḍa.
func isLineDelimiter(r rune) bool {
	switch r {
	case '\n', '\r', '|', '।', '॥':
		return true
	}
	return false
}

// Segment splits verse text into its metrical lines, in order. Runs of
// delimiters count as one and whitespace-only pieces are dropped.
func Segment(text string) []string {
	fields := strings.FieldsFunc(text, isLineDelimiter)
	lines := make([]string, 0, len(fields))
	for _, field := range fields {
		if trimmed := strings.TrimSpace(field); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

// Clean removes digits, ASCII punctuation, whitespace and control characters
// from a normalized line. Letters and diacritic marks are kept. The scanner
// reads a zero rune as end of line, so none may survive into its input.
func Clean(line string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsDigit(r), unicode.IsSpace(r), unicode.IsControl(r):
			return -1
		case r < unicode.MaxASCII && (unicode.IsPunct(r) || unicode.IsSymbol(r)):
			return -1
		}
		return r
	}, line)
}
