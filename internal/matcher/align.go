package matcher

import "strings"

// gap fills a stretched line when the canonical line is empty. It is never
// a valid symbol, so it mismatches every scanned syllable.
const gap = "-"

// Stretch repeats canonical end to end until it covers length symbols, then
// truncates it to exactly length.
func Stretch(canonical string, length int) string {
	if length <= 0 {
		return ""
	}
	if canonical == "" {
		return strings.Repeat(gap, length)
	}
	reps := (length + len(canonical) - 1) / len(canonical)
	return strings.Repeat(canonical, reps)[:length]
}

// Align pairs canonical lines with verse lines and stretches each one to
// the length of its verse line. The result always has one element per
// verse line.
//
//   - same line count: positional
//   - several canonical lines, different count: cycle the sequence
//   - a single canonical line: reused for every verse line
func Align(canonical []string, verse []string) []string {
	n, m := len(verse), len(canonical)
	aligned := make([]string, n)
	if m == 0 {
		for i, line := range verse {
			aligned[i] = Stretch("", len(line))
		}
		return aligned
	}

	for i, line := range verse {
		var base string
		switch {
		case m == n:
			base = canonical[i]
		case m > 1:
			base = canonical[i%m]
		default:
			base = canonical[0]
		}
		aligned[i] = Stretch(base, len(line))
	}
	return aligned
}
