package filter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/endorses/pcapview/internal/pkg/capture"
	"github.com/endorses/pcapview/internal/pkg/cmdutil"
	"github.com/endorses/pcapview/internal/pkg/dashboard"
	"github.com/endorses/pcapview/internal/pkg/filtering"
	"github.com/endorses/pcapview/internal/pkg/logger"
	"github.com/endorses/pcapview/internal/pkg/output"
	"github.com/endorses/pcapview/internal/pkg/signals"
	"github.com/endorses/pcapview/internal/pkg/types"
)

var (
	applyInput    string
	applyFormat   string
	applySavePcap string
	applyLimit    int
	applyCriteria CriteriaFlags
)

// FilterResult is the JSON output of the filter command
type FilterResult struct {
	Filter   string             `json:"filter"`
	Criteria filtering.Criteria `json:"criteria"`
	Total    int                `json:"total"`
	Visible  int                `json:"visible"`
	Rows     []types.PacketRow  `json:"rows"`
}

// FilterCmd filters the packets of a capture or row file
var FilterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Filter the packets of a capture file",
	Long: `Filter the packets of a capture file the way the packet table does.

MAC and IP fields match as case-insensitive substrings, the protocol must
match exactly, the port matches anywhere in the ports column and the length
bounds are inclusive. All given fields must match. Time bounds are only
applied by the server during filtered export, and the server compares the
port exactly, so an export can differ slightly from the local view.

The input is a capture file (.pcap, .pcapng, .cap) or a JSON row file (.json).

Examples:
  # Show TCP packets of one host
  pcapview filter -i capture.pcap --protocol TCP --src-ip 10.0.0.5

  # Start from a saved preset and narrow it down
  pcapview filter -i capture.pcapng --preset dns --length-min 100

  # Save the matching packets to a new capture
  pcapview filter -i capture.pcap --port 443 --save-pcap https.pcap

  # JSON output
  pcapview filter -i rows.json --protocol UDP --format json`,
	RunE: runFilter,
}

func init() {
	FilterCmd.Flags().StringVarP(&applyInput, "input", "i", "", "Capture or JSON row file (required)")
	FilterCmd.Flags().StringVarP(&applyFormat, "format", "o", "", "Output format: table or json (default table)")
	FilterCmd.Flags().StringVar(&applySavePcap, "save-pcap", "", "Write the matching packets to this pcap file")
	FilterCmd.Flags().IntVar(&applyLimit, "limit", 0, "Read at most this many packets (0 means all)")
	applyCriteria.Register(FilterCmd.Flags())
	_ = FilterCmd.MarkFlagRequired("input")
}

func runFilter(cmd *cobra.Command, args []string) error {
	format := strings.ToLower(cmdutil.GetStringConfig("filter.format", applyFormat))
	if format == "" {
		format = "table"
	}
	if format != "table" && format != "json" {
		return NewExitError(ExitValidationError, fmt.Errorf("unknown output format: %s (expected table or json)", format))
	}

	criteria, err := applyCriteria.Resolve()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signals.WithCancelOnSignal(ctx)
	defer stop()

	rows, err := capture.LoadRows(ctx, applyInput, capture.LoadOptions{
		KeepRawData: applySavePcap != "",
		Limit:       cmdutil.GetIntConfig("filter.limit", applyLimit),
	})
	if err != nil {
		return NewExitError(mapLoadError(err), err)
	}

	page, err := dashboard.NewPage(dashboard.Config{
		Rows: rows,
		Form: filtering.NewFormFromCriteria(criteria),
	})
	if err != nil {
		return err
	}

	page.Table().SetObserver(drawLog{})
	predicate := page.ApplyFilters()
	if predicate.IsIdentity() {
		logger.Debug("No filter criteria given, showing every packet")
	}
	if criteria.TimeStart != "" || criteria.TimeEnd != "" {
		logger.Warn("Time bounds are not applied to the local table",
			"time_start", criteria.TimeStart,
			"time_end", criteria.TimeEnd)
	}

	visible := page.Table().VisibleRows()

	if applySavePcap != "" {
		written, skipped, err := page.SaveVisible(applySavePcap)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved %d packets to %s", written, applySavePcap)
		if skipped > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), " (%d without frame data skipped)", skipped)
		}
		fmt.Fprintln(cmd.ErrOrStderr())
	}

	if format == "json" {
		return OutputJSON(cmd, FilterResult{
			Filter:   predicate.String(),
			Criteria: criteria,
			Total:    page.Table().Len(),
			Visible:  len(visible),
			Rows:     visible,
		})
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), output.RenderRows(predicate.String(), visible, page.Table().Len()))
	return err
}

// drawLog logs the size of every table redraw
type drawLog struct{}

func (drawLog) OnDraw(visible, total int) {
	logger.Debug("Packet table drawn", "visible", visible, "total", total)
}

func mapLoadError(err error) int {
	switch {
	case errors.Is(err, capture.ErrUnsupportedFile):
		return ExitValidationError
	case errors.Is(err, os.ErrNotExist):
		return ExitNotFoundError
	default:
		return ExitGeneralError
	}
}
