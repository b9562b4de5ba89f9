// Package buildinfo contains build-time metadata injected at link time.
package buildinfo

import "fmt"

// Set with -ldflags "-X github.com/avirtanen/agentlab/internal/buildinfo.Version=... ".
var (
	Version   = "dev"
	BuildDate = "unknown"
)

// String returns the version and build date in a single line for banners
// and the --version flag.
func String() string {
	return fmt.Sprintf("%s (built %s)", Version, BuildDate)
}
