package analysis

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxInputRunes is the longest verse accepted, counted in characters after
// trimming.
const MaxInputRunes = 1000

var (
	// ErrEmptyInput is returned for blank verse text.
	ErrEmptyInput = errors.New("invalid input: 'shloka' cannot be empty")
	// ErrInputTooLong is returned when the verse exceeds MaxInputRunes.
	ErrInputTooLong = errors.New("input too long: please limit your shloka to under 1000 characters")
)

// htmlTag also matches an unterminated tag at the end of the text.
var htmlTag = regexp.MustCompile(`<[^>]*>?`)

// CleanInput trims text, enforces the length limits and strips HTML tags.
// The length limit applies before tags are removed.
func CleanInput(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", ErrEmptyInput
	}
	if utf8.RuneCountInString(trimmed) > MaxInputRunes {
		return "", ErrInputTooLong
	}
	return htmlTag.ReplaceAllString(trimmed, ""), nil
}

// IsInvalidInput reports whether err came from CleanInput.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrEmptyInput) || errors.Is(err, ErrInputTooLong)
}
