// Package report provides the unfiltered report command.
package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/endorses/pcapview/cmd/filter"
	"github.com/endorses/pcapview/internal/pkg/cmdutil"
	"github.com/endorses/pcapview/internal/pkg/dashboard"
	"github.com/endorses/pcapview/internal/pkg/export"
	"github.com/endorses/pcapview/internal/pkg/reportopts"
)

var (
	reportTarget  string
	reportServer  string
	reportOptions []string
	reportAll     bool
	reportNone    bool
)

// Result is the JSON output of the report command
type Result struct {
	TargetID string   `json:"target_id"`
	Options  []string `json:"options"`
	URL      string   `json:"url"`
}

// ReportCmd builds the link to the report with the chosen sections
var ReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build the report link with the chosen sections",
	Long: `Build the link to the full (unfiltered) report of an analysis with the
chosen report sections. The filter criteria never affect this report.

Sections: summary, protocols, ports, mac_addresses, mac_vendors,
payload_stats, throughput_stats, network_efficiency, protocol_payload, time,
packet_size, top_ips.
Without --option the sections from report.options in the config file are
used, or summary, protocols, ports and mac_addresses.

Examples:
  pcapview report --target 42
  pcapview report --target 42 --option summary --option time
  pcapview report --target 42 --all --server http://analysis:5000`,
	RunE: runReport,
}

func init() {
	ReportCmd.Flags().StringVarP(&reportTarget, "target", "t", "", "Analysis id on the server (or export.target)")
	ReportCmd.Flags().StringVarP(&reportServer, "server", "s", "", "Print an absolute link on this server")
	ReportCmd.Flags().StringSliceVar(&reportOptions, "option", nil, "Report section to include (repeatable)")
	ReportCmd.Flags().BoolVar(&reportAll, "all", false, "Include every section")
	ReportCmd.Flags().BoolVar(&reportNone, "none", false, "Deselect every section")
	ReportCmd.MarkFlagsMutuallyExclusive("all", "none")
}

// notices prints the no-options message to stderr
type notices struct {
	w io.Writer
}

func (n notices) Notify(msg string) {
	fmt.Fprintln(n.w, msg)
}

func (n notices) Error(msg string) {
	fmt.Fprintf(n.w, "Error: %s\n", msg)
}

func runReport(cmd *cobra.Command, args []string) error {
	target := cmdutil.GetStringConfig("export.target", reportTarget)
	if target == "" {
		return filter.NewExitError(filter.ExitValidationError, fmt.Errorf("target is required (use --target)"))
	}

	page, err := dashboard.NewPage(dashboard.Config{
		TargetID:      target,
		Notifier:      notices{w: cmd.ErrOrStderr()},
		ReportOptions: cmdutil.GetStringSliceConfig("report.options", reportOptions),
	})
	if err != nil {
		return filter.NewExitError(filter.ExitValidationError, err)
	}

	switch {
	case reportAll:
		page.ReportOptions().SelectAll()
	case reportNone:
		page.ReportOptions().DeselectAll()
	}

	link, err := page.GenerateReport()
	if err != nil {
		if errors.Is(err, reportopts.ErrNoOptionsSelected) {
			return filter.NewExitError(filter.ExitValidationError, errors.New(reportopts.NoOptionsMessage))
		}
		return err
	}

	if server := cmdutil.GetStringConfig("server.url", reportServer); server != "" {
		client, err := export.NewClient(export.ClientConfig{BaseURL: server})
		if err != nil {
			return filter.NewExitError(filter.ExitValidationError, err)
		}
		link = client.ResolveURL(link)
	}

	return filter.OutputJSON(cmd, Result{
		TargetID: target,
		Options:  page.ReportOptions().Selected(),
		URL:      link,
	})
}
