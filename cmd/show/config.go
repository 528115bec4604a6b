package show

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/endorses/pcapview/cmd/filter"
	"github.com/endorses/pcapview/internal/pkg/cmdutil"
	"github.com/endorses/pcapview/internal/pkg/constants"
	"github.com/endorses/pcapview/internal/pkg/output"
	"github.com/endorses/pcapview/internal/pkg/reportopts"
)

var configJSON bool

// ConfigView is the effective configuration
type ConfigView struct {
	ConfigFile    string   `json:"config_file"`
	ServerURL     string   `json:"server_url"`
	ServerTimeout string   `json:"server_timeout"`
	Target        string   `json:"target"`
	PresetsFile   string   `json:"presets_file"`
	ReportOptions []string `json:"report_options"`
	LogLevel      string   `json:"log_level"`
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display current configuration",
	Long: `Display the configuration after merging the config file, environment
variables (` + constants.EnvPrefix + `_*) and defaults.`,
	RunE: runShowConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configJSON, "json", false, "Output as JSON")
}

func currentConfig() ConfigView {
	server := cmdutil.GetStringConfig("server.url", "")
	if server == "" {
		server = constants.DefaultServerURL
	}
	options := cmdutil.GetStringSliceConfig("report.options", nil)
	if len(options) == 0 {
		options = reportopts.Defaults
	}
	level := viper.GetString("log.level")
	if level == "" {
		level = "info"
	}
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = "(none)"
	}

	return ConfigView{
		ConfigFile:    configFile,
		ServerURL:     server,
		ServerTimeout: cmdutil.GetDurationConfig("server.timeout", 0, constants.DefaultExportTimeout).String(),
		Target:        viper.GetString("export.target"),
		PresetsFile:   filter.PresetsFile(""),
		ReportOptions: options,
		LogLevel:      level,
	}
}

func runShowConfig(cmd *cobra.Command, args []string) error {
	cfg := currentConfig()
	if configJSON {
		return filter.OutputJSON(cmd, cfg)
	}

	_, err := fmt.Fprint(cmd.OutOrStdout(), output.RenderKeyValues("Configuration", [][2]string{
		{"config file", cfg.ConfigFile},
		{"server.url", cfg.ServerURL},
		{"server.timeout", cfg.ServerTimeout},
		{"export.target", cfg.Target},
		{"filter.presets_file", cfg.PresetsFile},
		{"report.options", strings.Join(cfg.ReportOptions, ", ")},
		{"log.level", cfg.LogLevel},
	}))
	return err
}
