package filter

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/endorses/pcapview/internal/pkg/filtering"
)

var (
	showPresetName string
	showPresetFile string
)

// ShowPresetCmd shows a single saved preset
var ShowPresetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Show a saved filter preset",
	Long: `Show a single filter preset by name. Output is JSON to stdout.

Examples:
  pcapview show preset --name dns`,
	RunE: runShowPreset,
}

func init() {
	ShowPresetCmd.Flags().StringVar(&showPresetName, "name", "", "Preset name (required)")
	AddPresetsFileFlag(ShowPresetCmd.Flags(), &showPresetFile)
	_ = ShowPresetCmd.MarkFlagRequired("name")
}

func runShowPreset(cmd *cobra.Command, args []string) error {
	if showPresetName == "" {
		return NewExitError(ExitValidationError, fmt.Errorf("preset name is required"))
	}

	cfg, err := filtering.LoadPresets(PresetsFile(showPresetFile))
	if err != nil {
		return NewExitError(ExitValidationError, err)
	}

	preset, err := cfg.Find(showPresetName)
	if err != nil {
		if filtering.IsNotFound(err) {
			return NewExitError(ExitNotFoundError, err)
		}
		return err
	}

	jsonBytes, err := filtering.PresetToJSON(preset)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(jsonBytes))
	return nil
}
