package commands

import "os"

// Error messages
const (
	ErrConfigLoaderUnavailable   = "config loader unavailable"
	ErrDoctorServiceUnavailable  = "doctor service unavailable"
	ErrAnalysisLogUnavailable    = "analysis log unavailable"
	ErrCacheStoreUnavailable     = "cache store unavailable"
	ErrShellInstallerUnavailable = "shell installer unavailable"
	ErrAnalysisUnavailable       = "analysis service unavailable"
)

// Success messages
const (
	MsgConfigurationValid       = "Configuration valid"
	MsgNoDifferencesFromDefault = "No differences from default configuration."
	MsgNoHistoryRecorded        = "No analyses recorded yet."
	MsgHistoryCleared           = "Analysis log cleared."
	MsgCacheCleared             = "Response cache cleared."
)

// TimestampFormat is used when listing analysis records.
const TimestampFormat = "2006-01-02 15:04:05"

var lookupEnv = os.Getenv
