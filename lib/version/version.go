// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strconv"
)

// Link-time values, for example:
//
//	go build -ldflags "-X github.com/certpack/certpack/lib/version.GitCommit=$(git rev-parse --short HEAD)"
//
// Left at their defaults, [Current] fills them from the VCS stamp the
// go command embeds in module builds.
var (
	GitCommit = "unknown"
	GitDirty  = "false"
	BuildTime = "unknown"
	Version   = "0.1.0-dev"
)

// Build describes the running binary.
type Build struct {
	Version   string
	Commit    string
	Dirty     bool
	Time      string
	GoVersion string
}

// readBuildInfo is swapped out by tests.
var readBuildInfo = debug.ReadBuildInfo

// Current merges the link-time values with the embedded build info.
// Link-time values win.
func Current() Build {
	build := Build{
		Version:   Version,
		Commit:    GitCommit,
		Time:      BuildTime,
		GoVersion: runtime.Version(),
	}
	build.Dirty, _ = strconv.ParseBool(GitDirty)

	info, ok := readBuildInfo()
	if !ok {
		return build
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if build.Commit == "unknown" && setting.Value != "" {
				build.Commit = setting.Value[:min(len(setting.Value), 7)]
			}
		case "vcs.time":
			if build.Time == "unknown" && setting.Value != "" {
				build.Time = setting.Value
			}
		case "vcs.modified":
			if GitDirty == "false" && setting.Value == "true" {
				build.Dirty = true
			}
		}
	}
	return build
}

func (b Build) String() string {
	commit := b.Commit
	if b.Dirty {
		commit += "-dirty"
	}
	return fmt.Sprintf("%s (%s, %s)", b.Version, commit, b.Time)
}

// Info is the one-line form printed by the version command.
func Info() string {
	return Current().String()
}

// Full is [Info] followed by the toolchain and platform.
func Full() string {
	build := Current()
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s",
		build, build.GoVersion, runtime.GOOS, runtime.GOARCH)
}

// Short returns the version number alone.
func Short() string {
	return Version
}

// UserAgent is the User-Agent header sent to the certification service.
func UserAgent() string {
	return fmt.Sprintf("certpack/%s (%s/%s)", Short(), runtime.GOOS, runtime.GOARCH)
}
