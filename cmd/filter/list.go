package filter

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/endorses/pcapview/internal/pkg/filtering"
)

var (
	listPresetsFile  string
	listPresetsMatch []string
)

// ListPresetsCmd lists the saved filter presets
var ListPresetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List saved filter presets",
	Long: `List the filter presets saved in the presets file. Output is JSON to stdout.

Examples:
  pcapview list presets
  pcapview list presets --match "dns-*"
  pcapview list presets --presets-file ./team-presets.yaml`,
	RunE: runListPresets,
}

func init() {
	AddPresetsFileFlag(ListPresetsCmd.Flags(), &listPresetsFile)
	ListPresetsCmd.Flags().StringSliceVar(&listPresetsMatch, "match", nil, "Only presets whose name matches (* wildcards, repeatable)")
}

func runListPresets(cmd *cobra.Command, args []string) error {
	cfg, err := filtering.LoadPresets(PresetsFile(listPresetsFile))
	if err != nil {
		return NewExitError(ExitValidationError, err)
	}

	jsonBytes, err := filtering.PresetSliceToJSON(cfg.Match(listPresetsMatch...))
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(jsonBytes))
	return nil
}
