package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
	// FilePermissions is used for non-sensitive files such as hook scripts
	FilePermissions = 0o644
)

// Timeout and duration constants
const (
	// DefaultCommandTimeout bounds each context fragment subprocess
	DefaultCommandTimeout = 2 * time.Second
	// DefaultRequestTimeoutSeconds is the external deadline applied to the reasoning call
	DefaultRequestTimeoutSeconds = 60
	// DefaultCacheTTL is how long a cached analysis stays valid
	DefaultCacheTTL = time.Hour
)

// Limit constants
const (
	// DefaultMaxCacheEntries is the maximum number of cache entries
	DefaultMaxCacheEntries = 100
	// DefaultMaxTokens is the default maximum number of response tokens
	DefaultMaxTokens = 1024
	// DefaultHistoryListLimit is the default number of analysis records to display
	DefaultHistoryListLimit = 20
)

// Environment variables
const (
	// EnvDebug enables the bundle dump and verbose logging
	EnvDebug = "SHELLSAGE_DEBUG"
	// EnvConfig overrides the config file location
	EnvConfig = "SHELLSAGE_CONFIG"
)

// Git context modes
const (
	GitModeAuto   = "auto"
	GitModeAlways = "always"
	GitModeNever  = "never"
)
