// Package constants provides shared constants used across pcapview commands.
package constants

import "time"

// Timeouts
const (
	// DefaultExportTimeout bounds a single filtered export request
	DefaultExportTimeout = 30 * time.Second

	// GracefulShutdownTimeout is the time to wait for in-flight work after a signal
	GracefulShutdownTimeout = 2 * time.Second
)

// Channel buffer sizes
const (
	// SignalChannelBuffer is the buffer size for OS signal channels
	SignalChannelBuffer = 1
)

// Configuration
const (
	// ConfigFileName is the config file looked up in $HOME (without extension)
	ConfigFileName = ".pcapview"

	// EnvPrefix prefixes environment overrides, e.g. PCAPVIEW_SERVER_URL
	EnvPrefix = "PCAPVIEW"

	// DefaultServerURL is the analysis server used when none is configured
	DefaultServerURL = "http://localhost:5000"

	// DefaultPresetsFile is relative to the user's home directory
	DefaultPresetsFile = ".config/pcapview/presets.yaml"
)
