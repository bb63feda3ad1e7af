// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

// Package envelope reads and rewrites the signed binary envelope (UPP)
// returned by the signing service.
//
// On the wire an envelope is a MessagePack array with a fixed shape:
//
//	signed:  [version, uuid, type, payload, signature]
//	chained: [version, uuid, prevSignature, type, payload, signature]
//
// The version byte carries the protocol version in its high nibble and
// the variant in its low nibble ([VersionSigned], [VersionChained]).
// When the service signs a hash, the payload field holds that hash.
// [Splice] replaces it with the original document bytes and marks the
// envelope as [TypeSigned], so the final artifact can be verified
// against the document itself rather than an opaque digest.
//
// Inside Go code an envelope is an [Envelope] with named accessors. The
// positional form exists only in [Decode] and [Envelope.Encode], which
// implement msgpack.CustomDecoder and msgpack.CustomEncoder.
package envelope
