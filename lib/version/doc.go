// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports which certpack build is running.
//
// Release builds stamp [GitCommit], [GitDirty], [BuildTime] and
// [Version] with -ldflags -X. Plain "go build" and "go install" runs
// leave them at their defaults, and [Current] falls back to the vcs.*
// settings the go command embeds. [Info] and [Full] feed the version
// command, [UserAgent] the requests sent by lib/signing.
package version
