package list

import (
	"github.com/spf13/cobra"

	"github.com/endorses/pcapview/cmd/filter"
)

// ListCmd is the base list command for listing resources.
var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List resources",
	Long: `List saved resources.

Subcommands:
  presets  - List saved filter presets

Examples:
  pcapview list presets`,
	// No Run function - requires a subcommand
}

func init() {
	ListCmd.AddCommand(filter.ListPresetsCmd)
}
