// Package version reports the build identity of the finsight binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set at build time via -ldflags "-X". Empty Commit and BuildTime fall back
// to the VCS stamp embedded by the Go toolchain.
var (
	Version   = "dev"
	Commit    = ""
	BuildTime = ""
)

// Info is the resolved build identity.
type Info struct {
	Version   string
	Commit    string
	BuildTime string
	GoVersion string
}

// Get resolves the build identity.
func Get() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}
	if info.Commit == "" || info.BuildTime == "" {
		if bi, ok := debug.ReadBuildInfo(); ok {
			fillFromSettings(&info, bi.Settings)
		}
	}
	if info.Commit == "" {
		info.Commit = "unknown"
	}
	if info.BuildTime == "" {
		info.BuildTime = "unknown"
	}
	return info
}

func fillFromSettings(info *Info, settings []debug.BuildSetting) {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.BuildTime == "" {
				info.BuildTime = s.Value
			}
		}
	}
}

// String returns the version line shown by --version.
func String() string {
	info := Get()
	commit := info.Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("finsight %s (commit: %s, built: %s, %s)", info.Version, commit, info.BuildTime, info.GoVersion)
}
