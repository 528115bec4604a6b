// Package cmdutil provides shared utilities for CLI command implementations.
package cmdutil

import (
	"time"

	"github.com/spf13/viper"
)

// GetStringConfig returns the config value for key, or flagValue if the key is not set.
// Flag values take precedence over config file values.
func GetStringConfig(key, flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return viper.GetString(key)
}

// GetStringSliceConfig returns flagValue if given, otherwise the config value for key.
func GetStringSliceConfig(key string, flagValue []string) []string {
	if len(flagValue) > 0 {
		return flagValue
	}
	// Check actual config value instead of viper.IsSet() which returns true
	// for bound flags even when config file doesn't define them
	if configValue := viper.GetStringSlice(key); len(configValue) > 0 {
		return configValue
	}
	return flagValue
}

// GetIntConfig returns flagValue if non-zero, otherwise the config value for key.
func GetIntConfig(key string, flagValue int) int {
	if flagValue != 0 {
		return flagValue
	}
	return viper.GetInt(key)
}

// GetDurationConfig returns flagValue if non-zero, otherwise the config value
// for key, otherwise def.
func GetDurationConfig(key string, flagValue, def time.Duration) time.Duration {
	if flagValue != 0 {
		return flagValue
	}
	if d := viper.GetDuration(key); d > 0 {
		return d
	}
	return def
}
