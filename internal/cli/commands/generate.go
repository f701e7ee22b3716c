package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/chandas-creator/chandas/internal/catalogue"
	"github.com/chandas-creator/chandas/internal/cli/config"
	"github.com/chandas-creator/chandas/internal/cli/ui"
	"github.com/chandas-creator/chandas/internal/matcher"
	"github.com/chandas-creator/chandas/internal/verify"
)

var (
	generateMeter    string
	generateTopic    string
	generateLanguage string
	generateAttempts int
	generateJSON     bool
)

// NewGenerateCommand creates the generate command
func NewGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Compose a verse in a meter and verify it",
		Long: `Ask the configured language model for a verse in the given meter, scan
each candidate and retry with tighter instructions until one is identified
as the requested meter or the attempts run out.

Requires generator.api_key (or GEMINI_API_KEY).

Examples:
  chandas generate --meter Anuṣṭubh --topic "the monsoon"
  chandas generate --meter Indravajrā --topic dharma --language iast --attempts 3`,
		Args: cobra.NoArgs,
		RunE: runGenerate,
	}

	cmd.Flags().StringVarP(&generateMeter, "meter", "m", "", "Target meter (prompted when omitted)")
	cmd.Flags().StringVarP(&generateTopic, "topic", "t", "", "What the verse should be about")
	cmd.Flags().StringVarP(&generateLanguage, "language", "l", verify.LanguageDevanagari, "Output script: devanagari or iast")
	cmd.Flags().IntVarP(&generateAttempts, "attempts", "n", 0, "Maximum attempts (default from config)")
	cmd.Flags().BoolVar(&generateJSON, "json", false, "Print the full outcome as JSON")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	language := strings.ToLower(generateLanguage)
	if language != verify.LanguageDevanagari && language != verify.LanguageIAST {
		return fmt.Errorf("--language must be %s or %s, got %q", verify.LanguageDevanagari, verify.LanguageIAST, generateLanguage)
	}
	if generateAttempts < 0 || generateAttempts > verify.MaxAttemptsLimit {
		return fmt.Errorf("--attempts must be between 1 and %d", verify.MaxAttemptsLimit)
	}

	generator := newGenerator(cfg.Generator)
	if generator == nil {
		fmt.Fprint(cmd.ErrOrStderr(), ui.ConfigError("generator.api_key is not set (or export GEMINI_API_KEY).", noColor))
		return verify.ErrNoAPIKey
	}

	logger := commandLogger(cfg)
	defer logger.Sync()

	handle, loadErr := openCatalogue(cmd.Context(), cfg.Catalogue, logger)
	if handle == nil {
		return loadErr
	}
	defer handle.Close()

	meter, err := chooseMeter(cmd, handle.store.Snapshot())
	if err != nil {
		return err
	}

	verifier := verify.NewVerifier(generator, handle.store, cfg.Matcher.Threshold, cfg.Generator.MaxAttempts, logger)
	req := verify.Request{
		Meter:       meter,
		Topic:       generateTopic,
		Language:    language,
		MaxAttempts: generateAttempts,
	}

	var outcome *verify.Outcome
	run := func() error {
		var err error
		outcome, err = verifier.Run(cmd.Context(), req)
		return err
	}
	if generateJSON {
		err = run()
	} else {
		err = ui.WithSpinner(cmd.ErrOrStderr(), fmt.Sprintf("Composing %s verse", meter), noColor, run)
	}
	if err != nil {
		return err
	}

	if generateJSON {
		return writeJSON(cmd.OutOrStdout(), outcome)
	}
	return printOutcome(cmd, meter, outcome)
}

// chooseMeter returns --meter, or asks for one when running interactively
func chooseMeter(cmd *cobra.Command, snap *catalogue.Snapshot) (string, error) {
	if meter := strings.TrimSpace(generateMeter); meter != "" {
		if _, ok := snap.Lookup(meter); !ok {
			fmt.Fprint(cmd.ErrOrStderr(), ui.Warning(
				fmt.Sprintf("%s is not in the catalogue; the model gets no canonical pattern to follow.", meter), noColor))
		}
		return meter, nil
	}

	if !stdinIsTerminal(cmd) {
		return "", fmt.Errorf("--meter is required")
	}

	var meter string
	prompt := &survey.Select{
		Message: "Meter:",
		Options: snap.Names(),
	}
	if err := survey.AskOne(prompt, &meter); err != nil {
		return "", err
	}
	return meter, nil
}

func printOutcome(cmd *cobra.Command, meter string, outcome *verify.Outcome) error {
	out := cmd.OutOrStdout()

	table := ui.NewTable(out, []string{"#", "Identified", "Similarity", "Pattern"}, &ui.TableOptions{NoColor: noColor})
	for _, attempt := range outcome.Attempts {
		table.AddRow(
			strconv.Itoa(attempt.Number),
			attempt.Match.IdentifiedName,
			matcher.FormatPercent(attempt.Match.Similarity),
			strings.Join(attempt.Patterns, "|"),
		)
	}
	table.Render()
	fmt.Fprintln(out)

	if outcome.Final != nil {
		ui.Header(out, "Verse", noColor)
		fmt.Fprintln(out, outcome.Final.Verse)
		if outcome.Final.Meta != "" {
			fmt.Fprintln(out)
			color.New(color.FgHiBlack).Fprintln(out, outcome.Final.Meta)
		}
		fmt.Fprintln(out)
	}

	switch {
	case outcome.Error != "":
		return fmt.Errorf("%s", outcome.Error)
	case outcome.Success:
		ui.WriteSuccess(out, fmt.Sprintf("Verified as %s after %d attempt(s)", outcome.Final.Match.IdentifiedName, len(outcome.Attempts)), noColor)
		return nil
	default:
		return fmt.Errorf("no attempt was identified as %s", meter)
	}
}
