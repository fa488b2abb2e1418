package app

import (
	"fmt"
	"runtime/debug"
)

// Set with -ldflags "-X github.com/hyperifyio/bskyposts/internal/app.BuildVersion=...".
var (
	BuildVersion = "0.0.0-dev"
	BuildCommit  = ""
	BuildDate    = ""
)

// readBuildInfo is swapped in tests.
var readBuildInfo = debug.ReadBuildInfo

// Version describes the running binary. Values stamped with -ldflags win;
// otherwise the module version and VCS settings recorded by the Go toolchain
// fill the gaps.
func Version() string {
	version, commit, date := BuildVersion, BuildCommit, BuildDate
	if info, ok := readBuildInfo(); ok {
		if version == "0.0.0-dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			version = info.Main.Version
		}
		for _, s := range info.Settings {
			switch {
			case s.Key == "vcs.revision" && commit == "":
				commit = s.Value
			case s.Key == "vcs.time" && date == "":
				date = s.Value
			}
		}
	}
	if commit == "" {
		commit = "unknown"
	}
	if date == "" {
		date = "unknown"
	}
	return fmt.Sprintf("bskyposts %s (%s, %s)", version, commit, date)
}
