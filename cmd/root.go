// Package cmd wires the pcapview command tree.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/endorses/pcapview/cmd/export"
	"github.com/endorses/pcapview/cmd/filter"
	"github.com/endorses/pcapview/cmd/list"
	"github.com/endorses/pcapview/cmd/report"
	"github.com/endorses/pcapview/cmd/rm"
	"github.com/endorses/pcapview/cmd/set"
	"github.com/endorses/pcapview/cmd/show"
	"github.com/endorses/pcapview/internal/pkg/constants"
	"github.com/endorses/pcapview/internal/pkg/logger"
	"github.com/endorses/pcapview/internal/pkg/version"
)

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:     "pcapview",
	Short:   "pcapview filters captures and exports filtered reports",
	Long:    fmt.Sprintf("pcapview %s - Packet capture viewer with local filtering and filtered export", version.GetVersion()),
	Version: version.GetFullVersion(),

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := logLevel
		if level == "" {
			level = viper.GetString("log.level")
		}
		if level != "" {
			logger.SetLevel(logger.ParseLevel(level))
		}
	},
}

// Execute runs the root command and exits with the command's exit code
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(filter.OutputError(os.Stderr, err))
	}
}

func addSubCommandPalattes() {
	rootCmd.AddCommand(filter.FilterCmd)
	rootCmd.AddCommand(export.ExportCmd)
	rootCmd.AddCommand(report.ReportCmd)
	rootCmd.AddCommand(list.ListCmd)
	rootCmd.AddCommand(show.ShowCmd)
	rootCmd.AddCommand(set.SetCmd)
	rootCmd.AddCommand(rm.RmCmd)
}

func init() {
	cobra.OnInitialize(initConfig)

	logger.Initialize()

	addSubCommandPalattes()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/"+constants.ConfigFileName+".yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (or log.level)")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(constants.ConfigFileName)
	}

	// PCAPVIEW_SERVER_URL overrides server.url
	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		logger.Debug("Using config file", "path", viper.ConfigFileUsed())
	}
}
