package show

import (
	"github.com/spf13/cobra"

	"github.com/endorses/pcapview/cmd/filter"
)

// ShowCmd is the base show command for displaying information.
var ShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display information",
	Long: `Display saved resources and the effective configuration.

Subcommands:
  preset  - Show a saved filter preset
  config  - Display current configuration

Examples:
  pcapview show preset --name dns
  pcapview show config`,
	// No Run function - requires a subcommand
}

func init() {
	ShowCmd.AddCommand(filter.ShowPresetCmd)
	ShowCmd.AddCommand(configCmd)
}
