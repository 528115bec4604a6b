package filter

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/endorses/pcapview/internal/pkg/filtering"
	"github.com/endorses/pcapview/internal/pkg/logger"
)

var (
	rmPresetName string
	rmPresetFile string
)

// RmPresetResult represents the result of a delete operation
type RmPresetResult struct {
	Name    string `json:"name"`
	Success bool   `json:"success"`
}

// RmPresetCmd removes a saved preset
var RmPresetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Remove a saved filter preset",
	Long: `Remove a filter preset from the presets file.

Examples:
  pcapview rm preset --name dns`,
	RunE: runRmPreset,
}

func init() {
	RmPresetCmd.Flags().StringVar(&rmPresetName, "name", "", "Preset name to delete (required)")
	AddPresetsFileFlag(RmPresetCmd.Flags(), &rmPresetFile)
	_ = RmPresetCmd.MarkFlagRequired("name")
}

func runRmPreset(cmd *cobra.Command, args []string) error {
	if rmPresetName == "" {
		return NewExitError(ExitValidationError, fmt.Errorf("preset name is required"))
	}

	path := PresetsFile(rmPresetFile)
	cfg, err := filtering.LoadPresets(path)
	if err != nil {
		return NewExitError(ExitValidationError, err)
	}

	if err := cfg.Delete(rmPresetName); err != nil {
		if filtering.IsNotFound(err) {
			return NewExitError(ExitNotFoundError, err)
		}
		return err
	}

	if err := filtering.SavePresets(path, cfg); err != nil {
		return err
	}
	logger.Info("Preset removed", "name", rmPresetName, "file", path)

	return OutputJSON(cmd, RmPresetResult{Name: rmPresetName, Success: true})
}
