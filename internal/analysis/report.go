package analysis

import (
	"github.com/chandas-creator/chandas/internal/matcher"
	"github.com/chandas-creator/chandas/internal/prosody"
	"github.com/chandas-creator/chandas/internal/script"
)

// Input holds the verse in each script.
type Input struct {
	Original   string `json:"original"`
	Devanagari string `json:"devanagari"`
	Latin      string `json:"latin"`
}

// PatternSummary is the scanned light/heavy pattern of the verse.
type PatternSummary struct {
	ByPada          []string `json:"byPada"`
	CombinedCompact string   `json:"combined_compact"`
	CombinedByPada  string   `json:"combined_by_pada"`
}

// Report is the full analysis of one verse. The match fields are inlined.
type Report struct {
	Input   Input          `json:"input"`
	Pattern PatternSummary `json:"pattern"`
	matcher.Result

	// Catalogue names the snapshot the verse was matched against.
	Catalogue string `json:"catalogue,omitempty"`
	// Cached is set when the report was served from the cache.
	Cached bool `json:"-"`
}

// NewReport assembles a report from its parts.
func NewReport(text string, verse prosody.Verse, result matcher.Result) *Report {
	input := Input{Original: text, Devanagari: text, Latin: text}
	if script.ContainsNative(text) {
		input.Latin = script.ToLatin(text)
	} else {
		input.Devanagari = script.ToNative(text)
	}

	byPada := make([]string, len(verse))
	copy(byPada, verse)

	return &Report{
		Input: input,
		Pattern: PatternSummary{
			ByPada:          byPada,
			CombinedCompact: verse.Combined(),
			CombinedByPada:  verse.ByLine(),
		},
		Result: result,
	}
}
