// Package matcher identifies the meter of a scanned verse by aligning it
// line by line against catalogue patterns.
package matcher

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/chandas-creator/chandas/internal/catalogue"
	"github.com/chandas-creator/chandas/internal/prosody"
)

const (
	// Unidentified is reported when no entry reaches the threshold.
	Unidentified = "Unknown / Mixed"

	// DefaultThreshold is the minimum score for a catalogue match.
	DefaultThreshold = 0.65

	// HintBonus is added when every line has the entry's expected length.
	HintBonus = 0.08
	// LineCountBonus is added when the entry declares as many lines as the verse has.
	LineCountBonus = 0.03

	noSyllables = "No vowels/syllables detected."
)

// The Anuṣṭubh rule: every 8-syllable block has a light 5th and a heavy
// 6th syllable. It overrides the catalogue.
const (
	AnustubhName    = "Anuṣṭubh"
	AnustubhPattern = "LGLLGGLG"
	anustubhBlock   = 8
)

// Result is the identification of one verse.
type Result struct {
	IdentifiedName string  `json:"identifiedChandas"`
	Similarity     float64 `json:"similarity"`
	MatchedPattern string  `json:"matchedPattern"`
	Explanation    string  `json:"explanation"`
}

// Identified reports whether the result names a meter.
func (r Result) Identified() bool {
	return r.IdentifiedName != Unidentified
}

// Candidate is the score of one catalogue entry against a verse.
type Candidate struct {
	Name       string
	Pattern    string
	Average    float64
	Bonus      float64
	Score      float64
	Stretched  []string
	Similarity []float64
}

// Match scores verse against entries and returns the best identification.
// Entries are only read.
func Match(verse prosody.Verse, entries []catalogue.Entry, threshold float64) Result {
	return Matcher{Threshold: threshold}.Match(verse, entries)
}

// Matcher carries the threshold and an optional logger for per-candidate
// scores. The zero value uses a threshold of 0.
type Matcher struct {
	Threshold float64
	Logger    *zap.Logger
}

// New returns a matcher with the given threshold.
func New(threshold float64, logger *zap.Logger) Matcher {
	return Matcher{Threshold: threshold, Logger: logger}
}

// Match scores verse against entries and returns the best identification.
func (m Matcher) Match(verse prosody.Verse, entries []catalogue.Entry) Result {
	if len(verse) == 0 || verse.SyllableCount() == 0 {
		return Result{
			IdentifiedName: Unidentified,
			Explanation:    noSyllables,
		}
	}

	logger := m.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bestName := Unidentified
	bestScore := 0.0
	bestPattern := ""

	for _, entry := range entries {
		candidate, ok := Score(verse, entry)
		if !ok {
			continue
		}
		logger.Debug("candidate",
			zap.String("name", candidate.Name),
			zap.Float64("average", candidate.Average),
			zap.Float64("bonus", candidate.Bonus),
			zap.Float64("score", candidate.Score),
		)
		if candidate.Score > bestScore {
			bestName = candidate.Name
			bestScore = candidate.Score
			bestPattern = candidate.Pattern
		}
	}

	if result, ok := anustubh(verse); ok {
		return result
	}

	name := Unidentified
	if bestScore >= m.Threshold {
		name = bestName
	}
	return Result{
		IdentifiedName: name,
		Similarity:     round4(bestScore),
		MatchedPattern: bestPattern,
		Explanation:    fmt.Sprintf("Detected average per-pada similarity %.1f%% vs DB canonical '%s'", bestScore*100, bestPattern),
	}
}

// Score computes the candidate score of a single entry. It returns false
// when the entry has no usable pattern.
func Score(verse prosody.Verse, entry catalogue.Entry) (Candidate, bool) {
	lines := entry.Pattern.Lines()
	if len(lines) == 0 || len(verse) == 0 {
		return Candidate{}, false
	}

	stretched := Align(lines, verse)
	sims := make([]float64, len(verse))
	total := 0.0
	for i, line := range verse {
		sims[i] = LineSimilarity(line, stretched[i])
		total += sims[i]
	}
	average := total / float64(len(verse))

	bonus := 0.0
	if entry.SyllablesPerLine > 0 && allLength(verse, entry.SyllablesPerLine) {
		bonus += HintBonus
	}
	if len(lines) == len(verse) {
		bonus += LineCountBonus
	}

	return Candidate{
		Name:       entry.Name,
		Pattern:    entry.Pattern.String(),
		Average:    average,
		Bonus:      bonus,
		Score:      clamp(average + bonus),
		Stretched:  stretched,
		Similarity: sims,
	}, true
}

// anustubh applies the structural override.
func anustubh(verse prosody.Verse) (Result, bool) {
	combined := verse.Combined()
	if len(combined) == 0 || len(combined)%anustubhBlock != 0 {
		return Result{}, false
	}

	blocks := len(combined) / anustubhBlock
	for b := 0; b < blocks; b++ {
		block := combined[b*anustubhBlock : (b+1)*anustubhBlock]
		if block[4] != byte(prosody.Light) || block[5] != byte(prosody.Heavy) {
			return Result{}, false
		}
	}

	return Result{
		IdentifiedName: AnustubhName,
		Similarity:     1.0,
		MatchedPattern: AnustubhPattern,
		Explanation:    fmt.Sprintf("Matches %s heuristic (pādas: %d). Full pattern: '%s'.", AnustubhName, blocks, combined),
	}, true
}

func allLength(verse prosody.Verse, n int) bool {
	for _, line := range verse {
		if len(line) != n {
			return false
		}
	}
	return true
}

func clamp(score float64) float64 {
	return math.Max(0, math.Min(1, score))
}

func round4(score float64) float64 {
	return math.Round(score*10000) / 10000
}

// FormatPercent renders a similarity as a percentage with one decimal.
func FormatPercent(similarity float64) string {
	return fmt.Sprintf("%.1f%%", similarity*100)
}
