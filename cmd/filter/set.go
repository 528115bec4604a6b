package filter

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/endorses/pcapview/internal/pkg/filtering"
	"github.com/endorses/pcapview/internal/pkg/logger"
)

var (
	setPresetName        string
	setPresetDescription string
	setPresetImport      string
	setPresetFile        string
	setPresetCriteria    CriteriaFlags
)

// SetPresetResult represents the result of a set operation
type SetPresetResult struct {
	Name    string `json:"name"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// SetBatchResult represents the result of a batch import
type SetBatchResult struct {
	Succeeded []string          `json:"succeeded"`
	Failed    []SetPresetResult `json:"failed,omitempty"`
}

// SetPresetCmd creates or updates a saved preset
var SetPresetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Create or update a filter preset",
	Long: `Create or update a named filter preset (upsert).

The command can operate in two modes:
1. Inline mode: Specify the criteria via flags
2. Import mode: Read presets from another presets YAML file (batch)

Examples:
  # Save a preset for DNS traffic
  pcapview set preset --name dns --protocol UDP --port 53 --description "DNS queries"

  # Import presets shared by a colleague
  pcapview set preset -f team-presets.yaml`,
	RunE: runSetPreset,
}

func init() {
	SetPresetCmd.Flags().StringVar(&setPresetName, "name", "", "Preset name")
	SetPresetCmd.Flags().StringVar(&setPresetDescription, "description", "", "Preset description")
	SetPresetCmd.Flags().StringVarP(&setPresetImport, "file", "f", "", "YAML file containing presets to import (batch mode)")
	AddPresetsFileFlag(SetPresetCmd.Flags(), &setPresetFile)
	setPresetCriteria.RegisterFields(SetPresetCmd.Flags())
}

func runSetPreset(cmd *cobra.Command, args []string) error {
	path := PresetsFile(setPresetFile)
	cfg, err := filtering.LoadPresets(path)
	if err != nil {
		return NewExitError(ExitValidationError, err)
	}

	if setPresetImport != "" {
		return runSetPresetBatch(cmd, path, cfg)
	}

	if setPresetName == "" {
		return NewExitError(ExitValidationError, fmt.Errorf("preset name is required (use --name)"))
	}
	criteria := setPresetCriteria.Criteria()
	if criteria.IsEmpty() {
		return NewExitError(ExitValidationError, fmt.Errorf("at least one criteria flag is required"))
	}

	preset := &filtering.Preset{
		Name:        setPresetName,
		Description: setPresetDescription,
		Criteria:    criteria,
	}
	if err := cfg.Upsert(preset); err != nil {
		return NewExitError(ExitValidationError, err)
	}
	if err := filtering.SavePresets(path, cfg); err != nil {
		return err
	}
	logger.Info("Preset saved", "name", preset.Name, "file", path)

	return OutputJSON(cmd, SetPresetResult{Name: preset.Name, Success: true})
}

func runSetPresetBatch(cmd *cobra.Command, path string, cfg *filtering.PresetConfig) error {
	imported, err := filtering.LoadPresets(setPresetImport)
	if err != nil {
		return NewExitError(ExitValidationError, err)
	}
	if len(imported.Presets) == 0 {
		return NewExitError(ExitValidationError, fmt.Errorf("no presets found in %s", setPresetImport))
	}

	result := SetBatchResult{Succeeded: []string{}}
	for _, p := range imported.Presets {
		if err := cfg.Upsert(p); err != nil {
			result.Failed = append(result.Failed, SetPresetResult{Name: p.Name, Error: err.Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, p.Name)
	}

	if len(result.Succeeded) > 0 {
		if err := filtering.SavePresets(path, cfg); err != nil {
			return err
		}
		logger.Info("Presets imported", "count", len(result.Succeeded), "file", path)
	}

	if err := OutputJSON(cmd, result); err != nil {
		return err
	}
	if len(result.Failed) > 0 {
		return NewExitError(ExitValidationError, errors.New("some presets failed to import"))
	}
	return nil
}
