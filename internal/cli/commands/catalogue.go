package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/chandas-creator/chandas/internal/catalogue"
	"github.com/chandas-creator/chandas/internal/cli/config"
	"github.com/chandas-creator/chandas/internal/cli/ui"
	"github.com/chandas-creator/chandas/internal/matcher"
)

var catalogueJSON bool

// NewCatalogueCommand creates the catalogue command group
func NewCatalogueCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "catalogue",
		Aliases: []string{"catalog", "db"},
		Short:   "Inspect the meter catalogue",
		Long: `Inspect the meter catalogue configured in chandas.yaml.

The catalogue is read from catalogue.path (JSON or YAML), or from SQL when
catalogue.driver is set. When it cannot be loaded the built-in meters are used.`,
	}

	cmd.PersistentFlags().BoolVar(&catalogueJSON, "json", false, "Print JSON")

	cmd.AddCommand(newCatalogueListCommand())
	cmd.AddCommand(newCatalogueShowCommand())
	cmd.AddCommand(newCatalogueValidateCommand())

	return cmd
}

func newCatalogueListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every meter in the catalogue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := loadSnapshot(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if catalogueJSON {
				return writeJSON(out, snap.Entries())
			}

			table := ui.NewTable(out, []string{"#", "Name", "Pattern", "Syllables"}, &ui.TableOptions{NoColor: noColor})
			for i, entry := range snap.Entries() {
				syllables := "-"
				if entry.SyllablesPerLine > 0 {
					syllables = strconv.Itoa(entry.SyllablesPerLine)
				}
				table.AddRow(strconv.Itoa(i+1), entry.Name, entry.Pattern.String(), syllables)
			}
			table.Render()
			fmt.Fprintf(out, "\n%d meters from %s\n", snap.Len(), snap.Source())
			return nil
		},
	}
}

func newCatalogueShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show one meter and its canonical pattern",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := loadSnapshot(cmd)
			if err != nil {
				return err
			}

			name := args[0]
			entry, ok := snap.Lookup(name)
			if !ok {
				fmt.Fprint(cmd.ErrOrStderr(), ui.MeterNotFoundError(name, matcher.Suggest(name, snap.Names(), 0, 0), noColor))
				return fmt.Errorf("unknown meter %q", name)
			}

			out := cmd.OutOrStdout()
			if catalogueJSON {
				return writeJSON(out, entry)
			}

			ui.Header(out, entry.Name, noColor)
			kv := ui.NewKeyValueTable(out, noColor)
			kv.AddRow("Pattern", entry.Pattern.String())
			if entry.SyllablesPerLine > 0 {
				kv.AddRow("Syllables per pāda", strconv.Itoa(entry.SyllablesPerLine))
			}
			for i, line := range entry.Pattern.Lines() {
				kv.AddRow(fmt.Sprintf("Line %d", i+1), fmt.Sprintf("%s (%d)", line, len(line)))
			}
			kv.Render()
			return nil
		},
	}
}

func newCatalogueValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check that a catalogue file parses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read catalogue: %w", err)
			}

			entries, err := catalogue.Decode(data, catalogue.FormatForPath(path))
			if err != nil {
				return fmt.Errorf("invalid catalogue %s: %w", path, err)
			}

			out := cmd.OutOrStdout()
			for _, entry := range entries {
				if entry.Pattern.IsEmpty() {
					fmt.Fprint(out, ui.Warning(fmt.Sprintf("%s has no usable pattern and will never match", entry.Name), noColor))
				}
			}
			ui.WriteSuccess(out, fmt.Sprintf("%s: %d meters", path, len(entries)), noColor)
			return nil
		},
	}
}

// loadSnapshot opens the configured catalogue. Load failures fall back to
// the built-in meters with a warning.
func loadSnapshot(cmd *cobra.Command) (*catalogue.Snapshot, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := commandLogger(cfg)
	defer logger.Sync()

	handle, loadErr := openCatalogue(cmd.Context(), cfg.Catalogue, logger)
	if handle == nil {
		return nil, loadErr
	}
	defer handle.Close()

	if loadErr != nil && !catalogueJSON {
		fmt.Fprint(cmd.ErrOrStderr(), ui.Warning(
			fmt.Sprintf("Catalogue unavailable (%v); showing the built-in meters.", loadErr), noColor))
	}
	return handle.store.Snapshot(), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
