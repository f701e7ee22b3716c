package catalogue

import (
	"encoding/json"
	"strings"

	"github.com/chandas-creator/chandas/internal/prosody"
)

// Pattern is the canonical form of a catalogue entry's pattern field: an
// ordered list of pure L/G lines. Catalogue data arrives as a plain string,
// a spaced string, a bar-separated string or a list of strings; all of those
// are resolved into this one shape when the entry is read.
type Pattern struct {
	raw   string
	lines []string
}

// ParsePattern normalizes a string pattern. A string containing the line
// separator is split into lines; otherwise the whole string is one line.
//
//	ParsePattern("LGLG|GGLG")        // [LGLG GGLG]
//	ParsePattern("L G L G L G L G")  // [LGLGLGLG]
func ParsePattern(raw string) Pattern {
	var candidates []string
	if strings.Contains(raw, prosody.LineSeparator) {
		candidates = strings.Split(raw, prosody.LineSeparator)
	} else {
		candidates = []string{raw}
	}
	return Pattern{raw: raw, lines: compactLines(candidates)}
}

// PatternFromLines normalizes a list pattern; each element is one line.
func PatternFromLines(items []string) Pattern {
	return Pattern{
		raw:   strings.Join(items, prosody.LineSeparator),
		lines: compactLines(items),
	}
}

// compactLines keeps only L/G (case-insensitive) in each candidate. A
// candidate with no symbol left is not a line.
func compactLines(candidates []string) []string {
	lines := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		var b strings.Builder
		for _, r := range strings.ToUpper(candidate) {
			if prosody.IsSymbol(r) {
				b.WriteRune(r)
			}
		}
		if b.Len() > 0 {
			lines = append(lines, b.String())
		}
	}
	return lines
}

// Lines returns a copy of the canonical lines.
func (p Pattern) Lines() []string {
	out := make([]string, len(p.lines))
	copy(out, p.lines)
	return out
}

// Len is the number of canonical lines
func (p Pattern) Len() int {
	return len(p.lines)
}

// IsEmpty reports whether no line survived normalization
func (p Pattern) IsEmpty() bool {
	return len(p.lines) == 0
}

// Raw returns the text the pattern was parsed from
func (p Pattern) Raw() string {
	return p.raw
}

// String joins the canonical lines with the line separator.
func (p Pattern) String() string {
	return strings.Join(p.lines, prosody.LineSeparator)
}

// MarshalJSON encodes the canonical form
func (p Pattern) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}
