// Package constants provides shared constants used throughout the asnmap codebase.
// This includes timeouts, cache lifetimes, file permissions and parser limits
// that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for a single source download.
	// Registry dumps are large, so this is generous.
	DefaultHTTPTimeout = 10 * time.Minute

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 30 * time.Minute

	// ShutdownTimeout bounds cleanup after a failed command
	ShutdownTimeout = 5 * time.Second
)

// Cache constants
const (
	// CacheTTL is how long a downloaded source file is reused before it is fetched again
	CacheTTL = 24 * time.Hour

	// MemoTTL is the lifetime of in-process fetch results
	MemoTTL = 30 * time.Minute

	// MemoCleanupInterval is how often expired in-process fetch results are purged
	MemoCleanupInterval = 10 * time.Minute

	// DefaultCacheDirName is the cache directory created under the user cache dir
	DefaultCacheDirName = "asnmap"
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Parser limits
const (
	// LineBufferSize is the read buffer for dump line readers
	LineBufferSize = 64 * 1024

	// MaxLineLength is the longest dump line the parsers accept.
	// Longer lines are skipped and counted.
	MaxLineLength = 4 * 1024 * 1024
)

// Format constants
const (
	// TimeFormatFilename is the format used in generated filenames
	TimeFormatFilename = "20060102-150405"
)
