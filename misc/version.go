// Package misc carries build information.
package misc

import (
	"runtime/debug"
)

// Set at link time with -ldflags "-X cssvm/misc.version=...".
var (
	version = "dev"
	gitHash = ""
)

const appName = "cssvm"

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

// GetGitHash returns the revision the binary was built from, either set at
// link time or recorded by the go tool.
func GetGitHash() string {
	if gitHash != "" {
		return gitHash
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
