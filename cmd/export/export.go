// Package export provides the filtered export commands.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/endorses/pcapview/cmd/filter"
	"github.com/endorses/pcapview/internal/pkg/cmdutil"
	"github.com/endorses/pcapview/internal/pkg/constants"
	"github.com/endorses/pcapview/internal/pkg/dashboard"
	fexport "github.com/endorses/pcapview/internal/pkg/export"
	"github.com/endorses/pcapview/internal/pkg/filtering"
	"github.com/endorses/pcapview/internal/pkg/signals"
)

var (
	exportTarget   string
	exportServer   string
	exportTimeout  time.Duration
	exportCriteria filter.CriteriaFlags
)

// Result is the JSON output of one filtered export
type Result struct {
	Kind         fexport.Kind `json:"kind"`
	TargetID     string       `json:"target_id"`
	Success      bool         `json:"success"`
	URL          string       `json:"url,omitempty"`
	TotalPackets *int         `json:"total_packets,omitempty"`
	RequestID    string       `json:"request_id,omitempty"`
	Error        string       `json:"error,omitempty"`
}

// BatchOutput is the JSON output of export all
type BatchOutput struct {
	Summary string   `json:"summary"`
	Results []Result `json:"results"`
}

// ExportCmd is the base command for filtered exports
var ExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a filtered report or CSV from the analysis server",
	Long: `Send the filter criteria to the analysis server and receive a link to
the filtered artifact.

Subcommands:
  report  - Filtered PDF report
  csv     - Filtered CSV
  all     - Both, with one criteria snapshot

The server URL is read from --server, server.url in the config file or
PCAPVIEW_SERVER_URL, in that order.

Examples:
  pcapview export csv --target 42 --protocol UDP
  pcapview export report --target 42 --preset dns --server http://analysis:5000
  pcapview export all --target 42 --src-ip 10.0.0.5`,
	// No Run function - requires a subcommand
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export a filtered PDF report",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd, fexport.KindReport)
	},
}

var csvCmd = &cobra.Command{
	Use:   "csv",
	Short: "Export a filtered CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd, fexport.KindCSV)
	},
}

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Export the filtered report and CSV concurrently",
	RunE:  runExportAll,
}

func init() {
	flags := ExportCmd.PersistentFlags()
	flags.StringVarP(&exportTarget, "target", "t", "", "Analysis id on the server (or export.target)")
	flags.StringVarP(&exportServer, "server", "s", "", "Analysis server URL (default "+constants.DefaultServerURL+")")
	flags.DurationVar(&exportTimeout, "timeout", 0, "Request timeout (default 30s)")
	exportCriteria.Register(flags)

	ExportCmd.AddCommand(reportCmd)
	ExportCmd.AddCommand(csvCmd)
	ExportCmd.AddCommand(allCmd)
}

// terminal shows export feedback on stderr and resolves artifact links
type terminal struct {
	w      io.Writer
	client *fexport.Client
}

func (t *terminal) Navigate(url string) {
	fmt.Fprintf(t.w, "Open: %s\n", t.client.ResolveURL(url))
}

func (t *terminal) Notify(msg string) {
	fmt.Fprintln(t.w, msg)
}

func (t *terminal) Error(msg string) {
	fmt.Fprintf(t.w, "Error: %s\n", msg)
}

func newPage(cmd *cobra.Command) (*dashboard.Page, *fexport.Client, error) {
	target := cmdutil.GetStringConfig("export.target", exportTarget)
	if target == "" {
		return nil, nil, filter.NewExitError(filter.ExitValidationError, fmt.Errorf("target is required (use --target)"))
	}

	criteria, err := exportCriteria.Resolve()
	if err != nil {
		return nil, nil, err
	}

	server := cmdutil.GetStringConfig("server.url", exportServer)
	if server == "" {
		server = constants.DefaultServerURL
	}
	client, err := fexport.NewClient(fexport.ClientConfig{
		BaseURL: server,
		Timeout: cmdutil.GetDurationConfig("server.timeout", exportTimeout, constants.DefaultExportTimeout),
	})
	if err != nil {
		return nil, nil, filter.NewExitError(filter.ExitValidationError, err)
	}

	term := &terminal{w: cmd.ErrOrStderr(), client: client}
	page, err := dashboard.NewPage(dashboard.Config{
		TargetID:  target,
		Poster:    client,
		Navigator: term,
		Notifier:  term,
		Form:      filtering.NewFormFromCriteria(criteria),
	})
	if err != nil {
		return nil, nil, err
	}
	return page, client, nil
}

func commandContext(cmd *cobra.Command) (context.Context, func()) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signals.WithCancelOnSignal(ctx)
}

func toResult(out fexport.Outcome, client *fexport.Client) Result {
	r := Result{
		Kind:         out.Kind,
		TargetID:     out.TargetID,
		Success:      out.OK(),
		TotalPackets: out.TotalPackets,
		RequestID:    out.RequestID,
	}
	if out.URL != "" {
		r.URL = client.ResolveURL(out.URL)
	}
	if out.Err != nil {
		r.Error = out.Err.Error()
	}
	return r
}

func runExport(cmd *cobra.Command, kind fexport.Kind) error {
	page, client, err := newPage(cmd)
	if err != nil {
		return err
	}

	ctx, stop := commandContext(cmd)
	defer stop()

	var done <-chan fexport.Outcome
	var ok bool
	if kind == fexport.KindCSV {
		done, ok = page.ExportCSV(ctx)
	} else {
		done, ok = page.ExportReport(ctx)
	}
	if !ok {
		return fexport.ErrBusy
	}
	out := <-done

	if err := filter.OutputJSON(cmd, toResult(out, client)); err != nil {
		return err
	}
	if out.Err != nil {
		return filter.NewExitError(filter.MapExportError(out.Err), out.Err)
	}
	return nil
}

func runExportAll(cmd *cobra.Command, args []string) error {
	page, client, err := newPage(cmd)
	if err != nil {
		return err
	}

	ctx, stop := commandContext(cmd)
	defer stop()

	batch, err := page.ExportAll(ctx)
	if err != nil {
		return err
	}

	result := BatchOutput{Summary: batch.Summary()}
	for _, out := range batch.Outcomes {
		result.Results = append(result.Results, toResult(out, client))
	}
	if err := filter.OutputJSON(cmd, result); err != nil {
		return err
	}

	if failed := batch.Failed(); len(failed) > 0 {
		return filter.NewExitError(filter.MapExportError(failed[0].Err), errors.New(batch.Summary()))
	}
	return nil
}
