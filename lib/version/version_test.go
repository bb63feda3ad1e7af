// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

// stubBuild pins the link-time values and the embedded build info for
// the duration of a test.
func stubBuild(t *testing.T, commit, dirty, buildTime string, settings ...debug.BuildSetting) {
	t.Helper()
	savedCommit, savedDirty, savedTime, savedRead := GitCommit, GitDirty, BuildTime, readBuildInfo
	t.Cleanup(func() {
		GitCommit, GitDirty, BuildTime, readBuildInfo = savedCommit, savedDirty, savedTime, savedRead
	})
	GitCommit, GitDirty, BuildTime = commit, dirty, buildTime
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Settings: settings}, true
	}
}

func TestInfoFromLinkTimeValues(t *testing.T) {
	stubBuild(t, "abc1234", "false", "2026-03-01T12:00:00Z",
		debug.BuildSetting{Key: "vcs.revision", Value: "ffffffffffffffff"})

	if got, want := Info(), Version+" (abc1234, 2026-03-01T12:00:00Z)"; got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}

	GitDirty = "true"
	if got := Info(); !strings.Contains(got, "abc1234-dirty") {
		t.Errorf("Info() = %q, want a dirty marker", got)
	}
}

func TestInfoFromEmbeddedBuildInfo(t *testing.T) {
	stubBuild(t, "unknown", "false", "unknown",
		debug.BuildSetting{Key: "vcs.revision", Value: "0123456789abcdef"},
		debug.BuildSetting{Key: "vcs.time", Value: "2026-05-04T08:00:00Z"},
		debug.BuildSetting{Key: "vcs.modified", Value: "true"},
	)

	build := Current()
	if build.Commit != "0123456" || build.Time != "2026-05-04T08:00:00Z" || !build.Dirty {
		t.Errorf("Current() = %+v", build)
	}
	if got, want := Info(), Version+" (0123456-dirty, 2026-05-04T08:00:00Z)"; got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}
}

func TestInfoWithoutBuildInfo(t *testing.T) {
	stubBuild(t, "unknown", "false", "unknown")
	readBuildInfo = func() (*debug.BuildInfo, bool) { return nil, false }

	if got, want := Info(), Version+" (unknown, unknown)"; got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}
}

func TestFull(t *testing.T) {
	full := Full()
	if !strings.HasPrefix(full, Info()) || !strings.Contains(full, "Go: go") {
		t.Errorf("Full() = %q", full)
	}
}

func TestUserAgent(t *testing.T) {
	if got := UserAgent(); !strings.HasPrefix(got, "certpack/"+Short()+" (") {
		t.Errorf("UserAgent() = %q", got)
	}
}
