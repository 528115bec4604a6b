package rm

import (
	"github.com/spf13/cobra"

	"github.com/endorses/pcapview/cmd/filter"
)

// RmCmd is the base rm command for removing resources.
var RmCmd = &cobra.Command{
	Use:   "rm",
	Short: "Remove resources",
	Long: `Remove saved resources.

Subcommands:
  preset  - Remove a filter preset

Examples:
  pcapview rm preset --name web`,
	// No Run function - requires a subcommand
}

func init() {
	RmCmd.AddCommand(filter.RmPresetCmd)
}
