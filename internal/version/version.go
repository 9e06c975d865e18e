// Package version holds build metadata stamped in via -ldflags.
package version

import "fmt"

var (
	// Version is the release version of the batch tools.
	Version = "dev"
	// GitSHA is the git commit the binaries were built from.
	GitSHA = "unknown"
	// BuildTime is the build timestamp.
	BuildTime = "unknown"
)

// String renders the version the way the tools print it for -version.
func String(tool string) string {
	return fmt.Sprintf("%s %s (%s)", tool, Version, GitSHA)
}
