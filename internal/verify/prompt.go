package verify

import (
	"fmt"
	"strings"
)

// Output languages for generated verses
const (
	LanguageDevanagari = "devanagari"
	LanguageIAST       = "iast"
)

// Block markers the model is asked to wrap its answer in
const (
	beginVerse = "---BEGIN_SHLOKA---"
	endVerse   = "---END_SHLOKA---"
	beginMeta  = "---META---"
	endMeta    = "---END_META---"
)

var meterHints = map[string]string{
	"anuṣṭubh": "Each pāda must be 8 syllables. 5th syllable Laghu, 6th syllable Guru.",
	"triṣṭubh": "Each pāda must be 11 syllables.",
}

// MeterHint describes the meter's shape for the model.
func MeterHint(meter string) string {
	if hint, ok := meterHints[strings.ToLower(meter)]; ok {
		return hint
	}
	return "Follow the canonical meter for " + meter + "."
}

// LanguageNote tells the model which script to write in.
func LanguageNote(language string) string {
	if strings.EqualFold(language, LanguageIAST) {
		return "Output must be in IAST (Latin)."
	}
	return "Output must be in Devanagari."
}

// BuildPrompt asks for exactly one verse in meter about topic, wrapped in
// the block markers Extract looks for. extra is appended verbatim.
func BuildPrompt(meter, topic, language, extra string) string {
	var b strings.Builder
	b.WriteString("You are a classical Sanskrit poet and prosody expert.\n")
	fmt.Fprintf(&b, "Produce EXACTLY one śloka in %s that satisfies the following constraints:\n", language)
	fmt.Fprintf(&b, "1) Chandas: %s. %s\n", meter, MeterHint(meter))
	fmt.Fprintf(&b, "2) Context / topic: %s\n", topic)
	fmt.Fprintf(&b, "3) Output only the exact blocks below, no explanation, no extra text. %s\n\n", LanguageNote(language))

	b.WriteString(beginVerse + "\n")
	b.WriteString("<the shloka lines in one or more lines>\n")
	b.WriteString(endVerse + "\n")
	b.WriteString(beginMeta + "\n")
	b.WriteString("syllable_pattern: <LG pattern per pada separated by |>\n")
	b.WriteString("explanation: <one-line justification>\n")
	b.WriteString(endMeta + "\n")

	if extra != "" {
		b.WriteString("\n" + extra + "\n")
	}
	return b.String()
}

// guidance points the model at the catalogue pattern of the target meter.
func guidance(pattern string) string {
	return "Canonical LG pattern (for guidance): " + pattern
}

// tighten replaces the extra instructions after a failed attempt.
func tighten(meter, language, identified string) string {
	if identified == "" {
		identified = "none"
	}
	script := "Devanagari"
	if strings.EqualFold(language, LanguageIAST) {
		script = "IAST"
	}
	return fmt.Sprintf("Previous attempt matched %s. Please strictly adhere to the %s meter in %s only. Output ONLY the required blocks.",
		identified, meter, script)
}
