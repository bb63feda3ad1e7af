// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

// Package canonical produces the byte sequences that certpack hashes.
//
// Two canonical forms exist, one per package type:
//
//   - SIGNED packages hash the MessagePack encoding of the document
//     ([Encode]). Determinism comes from the encoding itself: object
//     keys stay in document order and every number has exactly one
//     representation. Nothing is sorted, so {"b":1,"a":2} and
//     {"a":2,"b":1} are different payloads.
//   - CHAINED packages hash sorted JSON text ([CanonicalizeJSONText]
//     with sort=true), which is RFC 8785 (JCS).
//
// Both start from a Value tree produced by [ParseJSON] (from text) or
// [FromGo] (from Go values). Objects in the tree are ordered maps, so
// the order a document was written in survives parsing.
//
// The MessagePack side implements only the JSON data model: nil, bool,
// numbers, strings, arrays and string-keyed maps, plus bin for
// [Decode]'s benefit. It is not a general-purpose codec.
package canonical
