package script

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// UnsupportedError reports a character the transliterator has no mapping for.
type UnsupportedError struct {
	Rune   rune
	Offset int
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported character %q (U+%04X) at rune %d", e.Rune, e.Rune, e.Offset)
}

// DevanagariToIAST transliterates Devanagari text to IAST. Characters outside
// the Devanagari block pass through unchanged. It fails on Devanagari
// codepoints it has no mapping for.
func DevanagariToIAST(text string) (string, error) {
	var b strings.Builder
	b.Grow(len(text))

	// pending is true after a consonant whose inherent 'a' has not been
	// written or suppressed yet.
	pending := false
	flush := func() {
		if pending {
			b.WriteByte('a')
			pending = false
		}
	}

	for i, r := range []rune(text) {
		if lat, ok := consonants[r]; ok {
			flush()
			b.WriteString(lat)
			pending = true
			continue
		}

		switch {
		case r == virama:
			pending = false
			continue
		case r == nukta || r == zeroWidthJoiner || r == zeroWidthNonJoiner:
			continue
		}

		if sign, ok := vowelSigns[r]; ok {
			if !pending {
				return "", &UnsupportedError{Rune: r, Offset: i}
			}
			b.WriteString(sign)
			pending = false
			continue
		}

		flush()

		if v, ok := independentVowels[r]; ok {
			b.WriteString(v)
			continue
		}
		if m, ok := marks[r]; ok {
			b.WriteString(m)
			continue
		}
		if isDevanagari(r) {
			return "", &UnsupportedError{Rune: r, Offset: i}
		}
		b.WriteRune(r)
	}
	flush()

	return b.String(), nil
}

// IASTToDevanagari transliterates IAST text to Devanagari. Input is lower-cased
// and NFC-normalized first. Letters that are not part of IAST are rejected;
// other characters pass through.
func IASTToDevanagari(text string) (string, error) {
	runes := []rune(norm.NFC.String(strings.ToLower(text)))

	var b strings.Builder
	b.Grow(len(text) * 3)

	// pending is true after a consonant that has not received a vowel yet.
	pending := false
	closeConsonant := func() {
		if pending {
			b.WriteRune(virama)
			pending = false
		}
	}

	for i := 0; i < len(runes); {
		token, kind := nextToken(runes, i)
		switch kind {
		case tokenConsonant:
			closeConsonant()
			b.WriteRune(latinConsonants[token])
			pending = true
		case tokenVowel:
			if pending {
				if token != "a" {
					b.WriteRune(latinVowelSigns[token])
				}
				pending = false
			} else {
				b.WriteRune(latinVowels[token])
			}
		case tokenMark:
			closeConsonant()
			b.WriteRune(latinMarks[token])
		default:
			r := runes[i]
			if unicode.IsLetter(r) {
				return "", &UnsupportedError{Rune: r, Offset: i}
			}
			closeConsonant()
			b.WriteRune(r)
		}
		i += len([]rune(token))
		if kind == tokenNone {
			i++
		}
	}
	closeConsonant()

	return b.String(), nil
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	tokenConsonant
	tokenVowel
	tokenMark
)

// nextToken returns the longest IAST token starting at runes[i].
func nextToken(runes []rune, i int) (string, tokenKind) {
	for size := maxTokenRunes; size >= 1; size-- {
		if i+size > len(runes) {
			continue
		}
		candidate := string(runes[i : i+size])
		if _, ok := latinConsonants[candidate]; ok {
			return candidate, tokenConsonant
		}
		if _, ok := latinVowels[candidate]; ok {
			return candidate, tokenVowel
		}
		if _, ok := latinMarks[candidate]; ok {
			return candidate, tokenMark
		}
	}
	return "", tokenNone
}

func isDevanagari(r rune) bool {
	return r >= devanagariFirst && r <= devanagariLast
}
