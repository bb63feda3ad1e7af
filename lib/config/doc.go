// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the certpack
// command.
//
// Configuration is loaded from a single file specified by either the
// CERTPACK_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There is no ~/.config discovery and no automatic
// file search. Running without a file is allowed: the command then
// starts from [Default] and its flags.
//
// The file may contain per-stage sections (local, dev, demo, qa, prod)
// whose non-empty fields override base values when [Config].Stage
// matches. A device usually has a different identity on each stage, so
// device_id is the field most often overridden.
//
// Variable expansion is performed on string fields after overrides are
// applied: ${HOME}, ${CERTPACK_HOME}, and ${VAR:-default} patterns are
// expanded. No environment variable overrides a config value directly.
//
// Key exports:
//
//   - [Config] -- device, stage, package type, hash, language, logging
//   - [Default] -- returns a Config with the production defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
//   - [Config.Validate] -- reports every invalid field at once
package config
