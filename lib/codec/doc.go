// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides certpack's CBOR encoding configuration.
//
// certpack writes CBOR for one thing: certification receipts, the
// on-disk record of a successful certification. Receipts are appended to
// a log file as a CBOR sequence (RFC 8742), one data item per receipt,
// so the log can grow without rewriting earlier entries.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items. The
// same receipt always produces identical bytes. Timestamps are written
// as tag 0 RFC 3339 strings with nanoseconds so they survive a round
// trip exactly and read naturally in diagnostic notation.
//
// For buffer-oriented operations:
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// For sequences (appending to or reading a receipt log):
//
//	encoder := codec.NewEncoder(file)
//	decoder := codec.NewDecoder(file)
//
// Types tagged `json` encode with the same field names in CBOR, since
// fxamacker/cbor reads `json` tags when `cbor` tags are absent.
package codec
