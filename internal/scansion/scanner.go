// Package scansion turns Sanskrit verse text into per-line light/heavy
// (laghu/guru) patterns.
//
// The scanner works on the NFC-normalized IAST form of each line and looks at
// one codepoint per phoneme. Vowels and the anusvāra/visarga marks are found by
// table lookup over that codepoint sequence; every other letter is treated as a
// consonant.
package scansion

import (
	"github.com/chandas-creator/chandas/internal/prosody"
	"github.com/chandas-creator/chandas/internal/script"
)

// vowels holds every codepoint that starts a syllable nucleus. The anusvāra
// (ṃ) and visarga (ḥ) are members so that they never count as a consonant in
// the cluster rule.
var vowels = runeSet("aiuṛḷāīūṝeoṃḥ")

// longVowels are heavy by nature.
var longVowels = runeSet("āīūṝeo")

// trailingMarks make the preceding vowel heavy.
var trailingMarks = runeSet("ṃḥ")

func runeSet(s string) map[rune]bool {
	set := make(map[rune]bool)
	for _, r := range s {
		set[r] = true
	}
	return set
}

// Scanner emits the light/heavy pattern of one cleaned line.
//
// Thread Safety: Scanner instances are NOT thread-safe. Each goroutine must
// create its own Scanner via NewScanner; Scan itself is safe for concurrent use.
type Scanner struct {
	source  []rune // Cleaned IAST line
	current int    // Current position in source
	pattern []byte // Collected symbols
}

// NewScanner creates a Scanner for one cleaned IAST line
func NewScanner(line string) *Scanner {
	source := []rune(line)
	return &Scanner{
		source:  source,
		current: 0,
		pattern: make([]byte, 0, len(source)/2),
	}
}

// ScanLine scans the whole line and returns its pattern
func (s *Scanner) ScanLine() string {
	for !s.isAtEnd() {
		s.scanSyllable()
	}
	return string(s.pattern)
}

// scanSyllable classifies the vowel at the current position, if any. Rule
// order is fixed: diphthong, long vowel, trailing mark, consonant cluster,
// then light. A ṃ or ḥ at the current position matches none of the heavy
// rules and is emitted as light.
func (s *Scanner) scanSyllable() {
	c := s.peek()
	if !vowels[c] {
		s.advance(1)
		return
	}

	next := s.peekAt(1)
	afterNext := s.peekAt(2)

	switch {
	case c == 'a' && (next == 'i' || next == 'u'):
		s.emit(prosody.Heavy)
		s.advance(2)
	case longVowels[c]:
		s.emit(prosody.Heavy)
		s.advance(1)
	case trailingMarks[next]:
		s.emit(prosody.Heavy)
		s.advance(1)
	case next != 0 && !vowels[next] && afterNext != 0 && !vowels[afterNext]:
		s.emit(prosody.Heavy)
		s.advance(1)
	default:
		s.emit(prosody.Light)
		s.advance(1)
	}
}

func (s *Scanner) emit(sym prosody.Symbol) {
	s.pattern = append(s.pattern, byte(sym))
}

func (s *Scanner) advance(n int) {
	s.current += n
}

// peek returns the current rune, or 0 at the end
func (s *Scanner) peek() rune {
	return s.peekAt(0)
}

// peekAt returns the rune offset positions ahead, or 0 past the end
func (s *Scanner) peekAt(offset int) rune {
	pos := s.current + offset
	if pos >= len(s.source) {
		return 0
	}
	return s.source[pos]
}

func (s *Scanner) isAtEnd() bool {
	return s.current >= len(s.source)
}

// Scan returns one pattern per metrical line of text. It never fails: lines
// without vowels produce an empty pattern and unknown scripts are scanned in
// their lower-cased form.
func Scan(text string) prosody.Verse {
	segments := Segment(text)
	verse := make(prosody.Verse, 0, len(segments))
	for _, segment := range segments {
		verse = append(verse, ScanLine(segment))
	}
	return verse
}

// ScanLine normalizes, cleans and scans a single line of verse text.
func ScanLine(line string) string {
	return NewScanner(Clean(script.ToLatin(line))).ScanLine()
}
