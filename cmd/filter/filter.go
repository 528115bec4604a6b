// Package filter holds the filter commands and the helpers shared by every
// pcapview command: exit codes, JSON error output, criteria flags and preset
// resolution.
package filter

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/endorses/pcapview/internal/pkg/cmdutil"
	"github.com/endorses/pcapview/internal/pkg/constants"
	"github.com/endorses/pcapview/internal/pkg/export"
	"github.com/endorses/pcapview/internal/pkg/filtering"
	"github.com/endorses/pcapview/internal/pkg/output"
)

// Exit codes for CLI commands
const (
	ExitSuccess         = 0
	ExitGeneralError    = 1
	ExitConnectionError = 2
	ExitValidationError = 3
	ExitNotFoundError   = 4
)

// ExitError carries the process exit code of a failed command
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError wraps err with an exit code
func NewExitError(code int, err error) *ExitError {
	return &ExitError{Code: code, Err: err}
}

// ExitCode returns the exit code for err (ExitGeneralError unless err is an ExitError)
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitGeneralError
}

// ErrorResponse represents a JSON error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// OutputError writes err to w as a JSON error response and returns the exit code
func OutputError(w io.Writer, err error) int {
	code := ExitCode(err)
	_ = output.WriteJSON(w, ErrorResponse{
		Error: err.Error(),
		Code:  mapExitCodeToString(code),
	})
	return code
}

// MapExportError maps a filtered export failure to an exit code
func MapExportError(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case export.IsTransport(err):
		return ExitConnectionError
	default:
		return ExitGeneralError
	}
}

func mapExitCodeToString(code int) string {
	switch code {
	case ExitSuccess:
		return "OK"
	case ExitConnectionError:
		return "UNAVAILABLE"
	case ExitValidationError:
		return "INVALID_ARGUMENT"
	case ExitNotFoundError:
		return "NOT_FOUND"
	default:
		return "UNKNOWN"
	}
}

// CriteriaFlags are the filter fields as command-line flags
type CriteriaFlags struct {
	SrcMAC    string
	DstMAC    string
	SrcIP     string
	DstIP     string
	Protocol  string
	Port      string
	LengthMin string
	LengthMax string
	TimeStart string
	TimeEnd   string

	// Preset names a saved preset used as the base criteria
	Preset      string
	PresetsFile string
}

// Register adds the criteria flags and the preset flags to fs
func (f *CriteriaFlags) Register(fs *pflag.FlagSet) {
	f.RegisterFields(fs)
	fs.StringVar(&f.Preset, "preset", "", "Saved preset to start from (flags override its fields)")
	AddPresetsFileFlag(fs, &f.PresetsFile)
}

// AddPresetsFileFlag adds --presets-file to fs
func AddPresetsFileFlag(fs *pflag.FlagSet, p *string) {
	fs.StringVar(p, "presets-file", "", "Presets file (default is $HOME/"+constants.DefaultPresetsFile+")")
}

// RegisterFields adds one flag per filter field to fs
func (f *CriteriaFlags) RegisterFields(fs *pflag.FlagSet) {
	fs.StringVar(&f.SrcMAC, "src-mac", "", "Source MAC (substring, case-insensitive)")
	fs.StringVar(&f.DstMAC, "dst-mac", "", "Destination MAC (substring, case-insensitive)")
	fs.StringVar(&f.SrcIP, "src-ip", "", "Source IP (substring)")
	fs.StringVar(&f.DstIP, "dst-ip", "", "Destination IP (substring)")
	fs.StringVar(&f.Protocol, "protocol", "", "Protocol name (exact, e.g. TCP)")
	fs.StringVar(&f.Port, "port", "", "Port (substring of the ports column)")
	fs.StringVar(&f.LengthMin, "length-min", "", "Minimum frame length (inclusive)")
	fs.StringVar(&f.LengthMax, "length-max", "", "Maximum frame length (inclusive)")
	fs.StringVar(&f.TimeStart, "time-start", "", "Start time (sent to the server only)")
	fs.StringVar(&f.TimeEnd, "time-end", "", "End time (sent to the server only)")
}

// Criteria returns the criteria given on the command line
func (f *CriteriaFlags) Criteria() filtering.Criteria {
	return filtering.Criteria{
		SrcMAC:    f.SrcMAC,
		DstMAC:    f.DstMAC,
		SrcIP:     f.SrcIP,
		DstIP:     f.DstIP,
		Protocol:  f.Protocol,
		Port:      f.Port,
		LengthMin: f.LengthMin,
		LengthMax: f.LengthMax,
		TimeStart: f.TimeStart,
		TimeEnd:   f.TimeEnd,
	}
}

// Resolve returns the preset criteria (if any) with the command-line fields applied on top
func (f *CriteriaFlags) Resolve() (filtering.Criteria, error) {
	name := cmdutil.GetStringConfig("filter.preset", f.Preset)
	if name == "" {
		return f.Criteria(), nil
	}

	cfg, err := filtering.LoadPresets(PresetsFile(f.PresetsFile))
	if err != nil {
		return filtering.Criteria{}, NewExitError(ExitValidationError, err)
	}
	preset, err := cfg.Find(name)
	if err != nil {
		return filtering.Criteria{}, NewExitError(ExitNotFoundError, err)
	}
	return preset.Criteria.Merge(f.Criteria()), nil
}

// PresetsFile returns the presets file path: the flag, then filter.presets_file,
// then the default under the home directory.
func PresetsFile(flagValue string) string {
	if path := cmdutil.GetStringConfig("filter.presets_file", flagValue); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Base(constants.DefaultPresetsFile)
	}
	return filepath.Join(home, constants.DefaultPresetsFile)
}

// OutputJSON writes v to the command's output as JSON
func OutputJSON(cmd *cobra.Command, v any) error {
	if err := output.WriteJSON(cmd.OutOrStdout(), v); err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return nil
}
