// Package version holds build metadata injected via ldflags.
package version

//nolint:revive // Set via ldflags at build time.
var (
	// Version is the release version of the catalogsearch build.
	Version = "dev"
	// Commit is the git commit the binary was built from.
	Commit = "unknown"
)
