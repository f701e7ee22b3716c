// Package prosody defines the light/heavy syllable alphabet shared by the
// scansion scanner and the meter matcher.
package prosody

import "strings"

// Symbol is the weight of one syllable.
type Symbol byte

const (
	// Light is a short (laghu) syllable.
	Light Symbol = 'L'
	// Heavy is a long (guru) syllable.
	Heavy Symbol = 'G'
)

// LineSeparator joins lines when a verse or pattern is reported as one string.
const LineSeparator = "|"

// String returns the single-letter encoding of the symbol
func (s Symbol) String() string {
	return string(s)
}

// IsSymbol reports whether r is a valid encoded symbol
func IsSymbol(r rune) bool {
	return r == rune(Light) || r == rune(Heavy)
}

// Verse is an ordered list of metrical lines (pādas). Each line holds only
// 'L' and 'G' characters and may be empty.
type Verse []string

// Combined concatenates every line into one symbol string.
func (v Verse) Combined() string {
	return strings.Join(v, "")
}

// ByLine joins the lines with LineSeparator.
func (v Verse) ByLine() string {
	return strings.Join(v, LineSeparator)
}

// SyllableCount returns the total number of symbols across all lines.
func (v Verse) SyllableCount() int {
	n := 0
	for _, line := range v {
		n += len(line)
	}
	return n
}

// Lengths returns the symbol count of each line
func (v Verse) Lengths() []int {
	lengths := make([]int, len(v))
	for i, line := range v {
		lengths[i] = len(line)
	}
	return lengths
}
