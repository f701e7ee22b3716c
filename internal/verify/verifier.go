// Package verify generates verses in a requested meter with a language
// model and checks each candidate with the scanner and matcher, retrying
// with tighter instructions until one passes.
package verify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/chandas-creator/chandas/internal/catalogue"
	"github.com/chandas-creator/chandas/internal/matcher"
	"github.com/chandas-creator/chandas/internal/scansion"
)

// Attempt limits
const (
	DefaultMaxAttempts = 5
	MaxAttemptsLimit   = 10
)

var (
	// ErrNoGenerator is returned when the verifier has no generator configured.
	ErrNoGenerator = errors.New("verify: no generator configured")
	// ErrMissingMeter is returned for a request without a target meter.
	ErrMissingMeter = errors.New("verify: target meter is required")
)

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Catalogue supplies the snapshot used for matching and pattern guidance.
type Catalogue interface {
	Snapshot() *catalogue.Snapshot
}

// Request describes one generate-and-verify run.
type Request struct {
	Meter    string `json:"chandas"`
	Topic    string `json:"context"`
	Language string `json:"language,omitempty"`
	// MaxAttempts of zero uses the verifier default.
	MaxAttempts int `json:"max_attempts,omitempty"`
}

// Attempt records one generated candidate and its identification.
type Attempt struct {
	Number   int            `json:"attempt"`
	Raw      string         `json:"generated_raw"`
	Verse    string         `json:"parsed_shloka"`
	Meta     string         `json:"meta,omitempty"`
	Patterns []string       `json:"lg_patterns"`
	Match    matcher.Result `json:"match"`
}

// Outcome is the result of a run. Error is set when generation failed;
// the attempts made before the failure are kept.
type Outcome struct {
	Success  bool      `json:"success"`
	Attempts []Attempt `json:"attempts"`
	Final    *Attempt  `json:"final"`
	Error    string    `json:"error,omitempty"`
}

// Verifier runs the generate, scan and match loop.
type Verifier struct {
	generator   Generator
	catalogue   Catalogue
	matcher     matcher.Matcher
	maxAttempts int
	logger      *zap.Logger
}

// NewVerifier creates a verifier. A nil generator makes every Run fail
// with ErrNoGenerator.
func NewVerifier(generator Generator, store Catalogue, threshold float64, maxAttempts int, logger *zap.Logger) *Verifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Verifier{
		generator:   generator,
		catalogue:   store,
		matcher:     matcher.New(threshold, logger.Named("matcher")),
		maxAttempts: maxAttempts,
		logger:      logger.Named("verify"),
	}
}

// Available reports whether a generator is configured.
func (v *Verifier) Available() bool {
	return v.generator != nil
}

// Run generates candidates until one is accepted or the attempts run out.
// A candidate is accepted when the identified meter starts with the target
// name or its similarity reaches the threshold.
func (v *Verifier) Run(ctx context.Context, req Request) (*Outcome, error) {
	if v.generator == nil {
		return nil, ErrNoGenerator
	}
	meter := strings.TrimSpace(req.Meter)
	if meter == "" {
		return nil, ErrMissingMeter
	}
	language := req.Language
	if language == "" {
		language = LanguageDevanagari
	}
	attempts := v.attempts(req.MaxAttempts)

	snap := v.catalogue.Snapshot()
	entries := snap.Entries()

	extra := ""
	if entry, ok := snap.Lookup(meter); ok && !entry.Pattern.IsEmpty() {
		extra = guidance(entry.Pattern.String())
	}

	outcome := &Outcome{Attempts: make([]Attempt, 0, attempts)}
	for n := 1; n <= attempts; n++ {
		v.logger.Info("generating",
			zap.Int("attempt", n),
			zap.Int("max_attempts", attempts),
			zap.String("meter", meter),
		)

		text, err := v.generator.Generate(ctx, BuildPrompt(meter, req.Topic, language, extra))
		if err != nil {
			v.logger.Error("generation failed", zap.Int("attempt", n), zap.Error(err))
			outcome.Error = fmt.Sprintf("Generation failed: %v", err)
			outcome.Final = last(outcome.Attempts)
			return outcome, nil
		}

		extracted := Extract(text)
		verse := scansion.Scan(extracted.Verse)
		result := v.matcher.Match(verse, entries)

		outcome.Attempts = append(outcome.Attempts, Attempt{
			Number:   n,
			Raw:      text,
			Verse:    extracted.Verse,
			Meta:     extracted.Meta,
			Patterns: []string(verse),
			Match:    result,
		})

		if v.accepted(meter, result) {
			v.logger.Info("verse accepted", zap.Int("attempt", n), zap.String("identified", result.IdentifiedName))
			outcome.Success = true
			outcome.Final = last(outcome.Attempts)
			return outcome, nil
		}

		identified := ""
		if result.Identified() {
			identified = result.IdentifiedName
		}
		extra = tighten(meter, language, identified)
	}

	outcome.Final = last(outcome.Attempts)
	return outcome, nil
}

func (v *Verifier) attempts(requested int) int {
	switch {
	case requested <= 0:
		return v.maxAttempts
	case requested > MaxAttemptsLimit:
		return MaxAttemptsLimit
	default:
		return requested
	}
}

func (v *Verifier) accepted(meter string, result matcher.Result) bool {
	if result.Identified() && strings.HasPrefix(strings.ToLower(result.IdentifiedName), strings.ToLower(meter)) {
		return true
	}
	return result.Similarity >= v.matcher.Threshold
}

func last(attempts []Attempt) *Attempt {
	if len(attempts) == 0 {
		return nil
	}
	a := attempts[len(attempts)-1]
	return &a
}
