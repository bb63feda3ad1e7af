// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for certpack.
//
// The central type is [Command], which represents a named subcommand
// with optional nested [Command.Subcommands], a parameter struct bound
// to flags, and a Run function. The tree is assembled in
// cmd/certpack/commands and dispatched via [Command.Execute], which
// handles flag parsing, subcommand routing, and structured help output
// with examples.
//
// Parameters are declared as struct fields with flag, desc and default
// tags and bound by [BindFlags]. Embedding [JSONOutput] adds --json.
//
// When a user types an unknown subcommand or flag, the framework
// computes Levenshtein edit distance against all known names and
// suggests the closest match (threshold: distance <= 3).
//
// Commands write through an [IO] value rather than the process's
// standard streams, so tests can run a command against buffers.
package cli
