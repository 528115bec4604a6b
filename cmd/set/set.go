package set

import (
	"github.com/spf13/cobra"

	"github.com/endorses/pcapview/cmd/filter"
)

// SetCmd is the base set command for creating/updating resources.
var SetCmd = &cobra.Command{
	Use:   "set",
	Short: "Create or update resources",
	Long: `Create or update saved resources.

Subcommands:
  preset  - Create or update a filter preset

Examples:
  pcapview set preset --name web --protocol TCP --port 443
  pcapview set preset --file presets.yaml`,
	// No Run function - requires a subcommand
}

func init() {
	SetCmd.AddCommand(filter.SetPresetCmd)
}
