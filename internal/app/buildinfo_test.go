package app

import (
	"runtime/debug"
	"testing"
)

func stubBuildInfo(t *testing.T, info *debug.BuildInfo) {
	t.Helper()
	prev := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return info, info != nil }
	t.Cleanup(func() { readBuildInfo = prev })
}

func TestVersion_FromToolchainBuildInfo(t *testing.T) {
	stubBuildInfo(t, &debug.BuildInfo{
		Main: debug.Module{Path: "github.com/hyperifyio/bskyposts", Version: "v1.2.3"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-10-01T00:00:00Z"},
		},
	})
	if got, want := Version(), "bskyposts v1.2.3 (abc123, 2026-10-01T00:00:00Z)"; got != want {
		t.Fatalf("Version() = %q, want %q", got, want)
	}
}

func TestVersion_LdflagsWin(t *testing.T) {
	stubBuildInfo(t, &debug.BuildInfo{Main: debug.Module{Version: "v9.9.9"}})
	prevV, prevC := BuildVersion, BuildCommit
	BuildVersion, BuildCommit = "1.0.0", "deadbeef"
	t.Cleanup(func() { BuildVersion, BuildCommit = prevV, prevC })

	if got, want := Version(), "bskyposts 1.0.0 (deadbeef, unknown)"; got != want {
		t.Fatalf("Version() = %q, want %q", got, want)
	}
}

func TestVersion_NoBuildInfo(t *testing.T) {
	stubBuildInfo(t, nil)
	if got, want := Version(), "bskyposts 0.0.0-dev (unknown, unknown)"; got != want {
		t.Fatalf("Version() = %q, want %q", got, want)
	}
}
