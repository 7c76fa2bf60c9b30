// Package version carries the relayd build version, settable at build
// time:
//
//	go build -ldflags="-X github.com/kmarsden/relayd/internal/version.Version=v1.2.3 \
//	                   -X github.com/kmarsden/relayd/internal/version.Commit=abc123"
//
// When the ldflags are absent, VCS details from the Go build info are
// used, falling back to "dev"/"unknown".
package version

import (
	"fmt"
	"runtime/debug"
)

var (
	// Version is the semantic version of relayd.
	Version = ""
	// Commit is the git commit relayd was built from.
	Commit = ""
)

func init() {
	if Version != "" && Commit != "" {
		return
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key != "vcs.revision" || Commit != "" {
				continue
			}
			Commit = setting.Value
			if len(Commit) > 7 {
				Commit = Commit[:7]
			}
		}
	}
	if Version == "" {
		Version = "dev"
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// Full returns the version string shown by `relayd version`.
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}
