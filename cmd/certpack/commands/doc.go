// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the certpack CLI command tree.
//
// Every command that touches configuration shares the same flags (see
// [settingsFlags]): a YAML config file named by --config or
// CERTPACK_CONFIG, with individual fields overridable on the command
// line. Network access goes through [Dependencies].Doer so tests can
// substitute a fake signing service.
package commands
