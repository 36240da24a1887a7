// Package version carries build metadata stamped at link time.
package version

import (
	"fmt"
	"runtime"
)

// Set via ldflags at build time, e.g.
//
//	go build -ldflags "-X github.com/dtsbundle/dtsbundle/internal/version.Version=v0.2.0"
var (
	// Version is the semantic version when the binary was built from a tag.
	Version = "dev"

	// Commit is the git commit hash the binary was built from.
	Commit = "unknown"
)

// Info contains version and build information.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the current version information.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns a human-readable version string.
func (i Info) String() string {
	return fmt.Sprintf("dtsbundle %s (commit %s)", i.Version, i.Commit)
}
