// Package version reports the panelctl build.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"
)

// Set at build time:
//
//	go build -ldflags="-X github.com/muurk/panelctl/internal/version.Version=v0.3.0 \
//	                   -X github.com/muurk/panelctl/internal/version.Commit=abc1234"
//
// Unset values are filled from the module's VCS stamp, then from "dev".
var (
	Version = ""
	Commit  = ""
)

func init() {
	if Version == "" || Commit == "" {
		if info, ok := debug.ReadBuildInfo(); ok {
			v, c := fromSettings(info.Settings)
			if Version == "" {
				Version = v
			}
			if Commit == "" {
				Commit = c
			}
		}
	}

	if Version == "" {
		Version = fmt.Sprintf("dev-%s", time.Now().Format("20060102-150405"))
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// fromSettings derives a dev version and short commit from VCS build settings
func fromSettings(settings []debug.BuildSetting) (version, commit string) {
	var revision, modified, stamp string
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			modified = s.Value
		case "vcs.time":
			stamp = s.Value
		}
	}

	if revision != "" {
		commit = revision
		if len(commit) > 7 {
			commit = commit[:7]
		}
		if modified == "true" {
			commit += "-dirty"
		}
	}

	if t, err := time.Parse(time.RFC3339, stamp); err == nil {
		version = fmt.Sprintf("dev-%s", t.Format("20060102"))
	}
	return version, commit
}

// Full returns the version with its commit
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// Detailed adds the Go toolchain and platform to Full
func Detailed() string {
	return fmt.Sprintf("panelctl %s\n  go:       %s\n  platform: %s/%s",
		Full(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
