// Package script converts verse text between Devanagari and the IAST Latin
// working representation used by the scansion scanner.
//
// Scansion looks at one codepoint per phoneme, so every Latin form returned by
// this package is NFC-normalized: ā, ṛ, ṃ, ḥ and the other diacritic letters are
// single precomposed codepoints, never a base letter plus a combining mark.
package script

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ContainsNative reports whether text has any Devanagari codepoint.
func ContainsNative(text string) bool {
	return strings.IndexFunc(text, isDevanagari) >= 0
}

// ToLatin returns the lower-case, NFC-normalized IAST form of text. Devanagari
// input is transliterated; anything else is lower-cased. It never fails: when
// transliteration is not possible the lower-cased original is returned.
func ToLatin(text string) string {
	if ContainsNative(text) {
		if latin, err := DevanagariToIAST(text); err == nil {
			return Normalize(latin)
		}
	}
	return Normalize(text)
}

// ToNative returns the Devanagari form of text. Text already containing
// Devanagari is returned as is, and so is text that cannot be transliterated.
func ToNative(text string) string {
	if ContainsNative(text) {
		return text
	}
	native, err := IASTToDevanagari(text)
	if err != nil {
		return text
	}
	return native
}

// Normalize lower-cases text and composes it to NFC.
func Normalize(text string) string {
	return norm.NFC.String(strings.ToLower(text))
}
