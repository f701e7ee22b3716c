package commands

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/chandas-creator/chandas/internal/analysis"
	"github.com/chandas-creator/chandas/internal/cli/config"
	"github.com/chandas-creator/chandas/internal/cli/ui"
	"github.com/chandas-creator/chandas/internal/matcher"
)

var (
	analyzeFile        string
	analyzeInteractive bool
	analyzeThreshold   float64
	analyzeJSON        bool
)

// NewAnalyzeCommand creates the analyze command
func NewAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [line...]",
		Short: "Scan a verse and identify its meter",
		Long: `Scan a verse into its light/heavy pattern and identify its meter.

Each argument is one line (pāda) of the verse. Without arguments the verse
is read from --file, from an interactive prompt, or from standard input.
Devanagari and IAST input are both accepted.

Examples:
  chandas analyze "dharmakṣetre kurukṣetre" "samavetā yuyutsavaḥ"
  chandas analyze --file verse.txt --json
  echo "धर्मक्षेत्रे कुरुक्षेत्रे" | chandas analyze
  chandas analyze --interactive`,
		RunE: runAnalyze,
	}

	cmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "Read the verse from a file ('-' for stdin)")
	cmd.Flags().BoolVarP(&analyzeInteractive, "interactive", "i", false, "Type the verse in an editor prompt")
	cmd.Flags().Float64Var(&analyzeThreshold, "threshold", -1, "Similarity threshold (default from config)")
	cmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the analysis as JSON")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	threshold := cfg.Matcher.Threshold
	if cmd.Flags().Changed("threshold") {
		if analyzeThreshold < 0 || analyzeThreshold > 1 {
			return fmt.Errorf("--threshold must be between 0 and 1, got %v", analyzeThreshold)
		}
		threshold = analyzeThreshold
	}

	text, err := verseInput(cmd, args)
	if err != nil {
		return err
	}

	logger := commandLogger(cfg)
	defer logger.Sync()

	handle, loadErr := openCatalogue(cmd.Context(), cfg.Catalogue, logger)
	if handle == nil {
		return loadErr
	}
	defer handle.Close()

	service := analysis.NewService(handle.store, analysis.Options{Threshold: threshold, Logger: logger})
	report, err := service.Analyze(cmd.Context(), text)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if analyzeJSON {
		return writeJSON(out, report)
	}

	if loadErr != nil {
		fmt.Fprint(cmd.ErrOrStderr(), ui.Warning(
			fmt.Sprintf("Catalogue unavailable (%v); matched against the built-in meters.", loadErr), noColor))
	}
	printReport(cmd, report)
	return nil
}

// verseInput picks the verse from args, --file, the interactive prompt or
// stdin, in that order
func verseInput(cmd *cobra.Command, args []string) (string, error) {
	switch {
	case len(args) > 0:
		return strings.Join(args, "\n"), nil

	case analyzeFile == "-":
		return readAllTrimmed(cmd.InOrStdin())

	case analyzeFile != "":
		data, err := os.ReadFile(analyzeFile)
		if err != nil {
			return "", fmt.Errorf("failed to read verse file: %w", err)
		}
		return string(data), nil

	case analyzeInteractive:
		var text string
		prompt := &survey.Multiline{
			Message: "Verse (one pāda per line):",
		}
		if err := survey.AskOne(prompt, &text, survey.WithValidator(survey.Required)); err != nil {
			return "", err
		}
		return text, nil

	case !stdinIsTerminal(cmd):
		return readAllTrimmed(cmd.InOrStdin())

	default:
		return "", fmt.Errorf("no verse given: pass it as arguments, with --file, or with --interactive")
	}
}

func printReport(cmd *cobra.Command, report *analysis.Report) {
	out := cmd.OutOrStdout()

	ui.Header(out, "Scansion", noColor)
	table := ui.NewTable(out, []string{"Pāda", "Pattern", "Syllables"}, &ui.TableOptions{NoColor: noColor})
	for i, line := range report.Pattern.ByPada {
		table.AddRow(strconv.Itoa(i+1), line, strconv.Itoa(len(line)))
	}
	table.Render()
	fmt.Fprintln(out)

	ui.Header(out, "Identification", noColor)
	kv := ui.NewKeyValueTable(out, noColor)
	kv.AddRow("Input", report.Input.Original)
	if report.Input.Devanagari != report.Input.Original {
		kv.AddRow("Devanagari", report.Input.Devanagari)
	}
	if report.Input.Latin != report.Input.Original {
		kv.AddRow("IAST", report.Input.Latin)
	}

	name := report.IdentifiedName
	if report.Identified() {
		name = color.New(color.FgGreen, color.Bold).Sprint(name)
	} else {
		name = color.New(color.FgYellow).Sprint(name)
	}
	kv.AddRow("Chandas", name)
	kv.AddRow("Similarity", matcher.FormatPercent(report.Similarity))
	if report.MatchedPattern != "" {
		kv.AddRow("Canonical", report.MatchedPattern)
	}
	kv.AddRow("Explanation", report.Explanation)
	kv.Render()
}
