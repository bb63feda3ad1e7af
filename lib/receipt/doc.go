// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

// Package receipt records successful certifications on disk.
//
// A [Receipt] holds the package string together with what produced it:
// device, stage, package type, the submitted hash, and the creation
// time. Its [Fingerprint] is a domain-separated BLAKE3 keyed hash of
// the package string, so a receipt whose package was edited after the
// fact fails [Receipt.Verify].
//
// Receipts are appended to a log file as a CBOR sequence through
// lib/codec. [Append] never rewrites existing entries; [ReadLog] returns
// every entry in order and [Dump] renders the log in CBOR diagnostic
// notation for inspection.
package receipt
