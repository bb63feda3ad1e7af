// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

// Package digest computes the one-way hash that is submitted to the
// signing service.
//
// Digests are rendered as standard base64 with padding, which is the
// form the service accepts as a request body. [String] is the pipeline
// entry point; [Sum], [Format] and [Parse] exist for tooling that needs
// the raw bytes.
package digest
