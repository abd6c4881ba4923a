// Package version holds build metadata, set with -ldflags at release time.
package version

var (
	// Version is the semantic version without a leading "v".
	Version = "dev"

	// Commit is the git commit the binary was built from.
	Commit = "none"

	// Date is the build date.
	Date = "unknown"
)
