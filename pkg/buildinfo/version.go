// Package buildinfo carries the version metadata stamped into the
// nbmap binary at build time.
//
// Release builds set the variables via ldflags:
//
//	go build -ldflags "-X github.com/nbmap/nbmap/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/nbmap/nbmap/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/nbmap/nbmap/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Unstamped builds (go run, go install without flags) report the dev
// placeholders.
package buildinfo

import "fmt"

var (
	// Version is the semantic version, "dev" when unstamped.
	Version = "dev"

	// Commit is the git commit SHA the binary was built from.
	Commit = "none"

	// Date is the UTC build timestamp.
	Date = "unknown"
)

// String formats the build metadata for `nbmap --version` style output.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the cobra version template the root command installs.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
