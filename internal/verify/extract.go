package verify

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Extracted is the verse pulled out of a model response.
type Extracted struct {
	Verse string `json:"shloka"`
	Meta  string `json:"meta"`
	Raw   string `json:"raw"`
}

var (
	verseBlock = regexp.MustCompile(`(?s)` + regexp.QuoteMeta(beginVerse) + `(.*?)` + regexp.QuoteMeta(endVerse))
	metaBlock  = regexp.MustCompile(`(?s)` + regexp.QuoteMeta(beginMeta) + `(.*?)` + regexp.QuoteMeta(endMeta))
	// runs of Devanagari, whitespace, commas and hyphens
	devanagariRun = regexp.MustCompile(`[\x{0900}-\x{097F}\s,\-]+`)
)

// A Devanagari run must be longer than minRunLength characters after
// trimming to count as a verse.
const minRunLength = 8

// fallbackLines is how many lines are kept when nothing else matched.
const fallbackLines = 4

// Extract finds the verse in text. It prefers the marked verse block, then
// the longest Devanagari run, then the first few non-blank lines.
func Extract(text string) Extracted {
	out := Extracted{Raw: text}

	if m := verseBlock.FindStringSubmatch(text); m != nil {
		out.Verse = strings.TrimSpace(m[1])
	} else if run := longestDevanagariRun(text); run != "" {
		out.Verse = run
	} else {
		out.Verse = firstLines(text, fallbackLines)
	}

	if m := metaBlock.FindStringSubmatch(text); m != nil {
		out.Meta = strings.TrimSpace(m[1])
	}
	return out
}

func longestDevanagariRun(text string) string {
	best, bestLen := "", 0
	for _, run := range devanagariRun.FindAllString(text, -1) {
		run = strings.TrimSpace(run)
		n := utf8.RuneCountInString(run)
		if n > minRunLength && n > bestLen {
			best, bestLen = run, n
		}
	}
	return best
}

func firstLines(text string, n int) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == n {
			break
		}
	}
	return strings.Join(lines, "\n")
}
