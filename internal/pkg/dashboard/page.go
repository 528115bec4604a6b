// Package dashboard binds the filter form, the packet table, the export
// controls and the report options of one analysis page.
package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/endorses/pcapview/internal/pkg/export"
	"github.com/endorses/pcapview/internal/pkg/filtering"
	"github.com/endorses/pcapview/internal/pkg/logger"
	"github.com/endorses/pcapview/internal/pkg/pcap"
	"github.com/endorses/pcapview/internal/pkg/reportopts"
	"github.com/endorses/pcapview/internal/pkg/table"
	"github.com/endorses/pcapview/internal/pkg/types"
)

// Config configures a Page
type Config struct {
	// TargetID identifies the analysis on the server
	TargetID string

	Rows []types.PacketRow

	// Poster sends filtered exports; exports are unavailable when nil
	Poster export.Poster

	Navigator export.Navigator
	Notifier  export.Notifier

	// Form defaults to a form holding every filter control
	Form *filtering.Form

	// ReportOptions defaults to reportopts.Defaults
	ReportOptions []string
}

// Page is one analysis view
type Page struct {
	targetID  string
	form      *filtering.Form
	table     *table.PacketTable
	report    *export.Dispatcher
	csv       *export.Dispatcher
	options   *reportopts.Selection
	navigator export.Navigator
	notifier  export.Notifier
}

// ErrExportUnavailable is returned by export actions on a page without a server
var ErrExportUnavailable = errors.New("filtered export is not configured")

// NewPage wires a page together
func NewPage(cfg Config) (*Page, error) {
	form := cfg.Form
	if form == nil {
		form = filtering.NewForm()
	}

	checked := cfg.ReportOptions
	if checked == nil {
		checked = reportopts.Defaults
	}
	options, err := reportopts.New(checked...)
	if err != nil {
		return nil, err
	}

	p := &Page{
		targetID:  cfg.TargetID,
		form:      form,
		table:     table.New(cfg.Rows),
		options:   options,
		navigator: cfg.Navigator,
		notifier:  cfg.Notifier,
	}

	if cfg.Poster != nil {
		if p.report, err = newDispatcher(cfg, export.KindReport); err != nil {
			return nil, err
		}
		if p.csv, err = newDispatcher(cfg, export.KindCSV); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func newDispatcher(cfg Config, kind export.Kind) (*export.Dispatcher, error) {
	d, err := export.NewDispatcher(export.Config{
		Kind:      kind,
		TargetID:  cfg.TargetID,
		Poster:    cfg.Poster,
		Navigator: cfg.Navigator,
		Notifier:  cfg.Notifier,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s dispatcher: %w", kind, err)
	}
	return d, nil
}

// Form returns the filter form
func (p *Page) Form() *filtering.Form {
	return p.form
}

// Table returns the packet table
func (p *Page) Table() *table.PacketTable {
	return p.table
}

// ReportOptions returns the report section selection
func (p *Page) ReportOptions() *reportopts.Selection {
	return p.options
}

// ReportControl returns the filtered report button, nil without a server
func (p *Page) ReportControl() *export.Control {
	if p.report == nil {
		return nil
	}
	return p.report.Control()
}

// CSVControl returns the filtered CSV button, nil without a server
func (p *Page) CSVControl() *export.Control {
	if p.csv == nil {
		return nil
	}
	return p.csv.Control()
}

// Criteria reads the current form state
func (p *Page) Criteria() filtering.Criteria {
	return filtering.Read(p.form)
}

// ApplyFilters filters the table by the current form state
func (p *Page) ApplyFilters() filtering.Predicate {
	return table.Apply(p.table, p.Criteria())
}

// ResetFilters clears the form and shows every row again
func (p *Page) ResetFilters() {
	table.Reset(p.table, p.form)
}

// ExportReport starts a filtered report export from the current form state.
// Returns false if the control is busy.
func (p *Page) ExportReport(ctx context.Context) (<-chan export.Outcome, bool) {
	return p.trigger(ctx, p.report)
}

// ExportCSV starts a filtered CSV export from the current form state.
// Returns false if the control is busy.
func (p *Page) ExportCSV(ctx context.Context) (<-chan export.Outcome, bool) {
	return p.trigger(ctx, p.csv)
}

func (p *Page) trigger(ctx context.Context, d *export.Dispatcher) (<-chan export.Outcome, bool) {
	if d == nil {
		logger.Warn("Filtered export requested without a server")
		return nil, false
	}
	return d.Trigger(ctx, p.Criteria())
}

// ExportAll runs both filtered exports with one criteria snapshot
func (p *Page) ExportAll(ctx context.Context) (*export.BatchResult, error) {
	if p.report == nil || p.csv == nil {
		return nil, ErrExportUnavailable
	}
	return export.DispatchAll(ctx, p.Criteria(), p.report, p.csv), nil
}

// GenerateReport opens the unfiltered report with the checked sections.
// With nothing checked the user is told so and nothing is requested.
func (p *Page) GenerateReport() (string, error) {
	url, err := p.options.BuildURL(p.targetID)
	if err != nil {
		if errors.Is(err, reportopts.ErrNoOptionsSelected) && p.notifier != nil {
			p.notifier.Error(reportopts.NoOptionsMessage)
		}
		return "", err
	}
	if p.navigator != nil {
		p.navigator.Navigate(url)
	}
	return url, nil
}

// SaveVisible writes the rows currently shown to a pcap file with the link
// type the rows were captured on
func (p *Page) SaveVisible(path string) (written, skipped int, err error) {
	return pcap.SaveRows(pcap.Config{FilePath: path}, p.table.VisibleRows())
}
