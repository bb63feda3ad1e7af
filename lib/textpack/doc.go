// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

// Package textpack renders a signed envelope as a compact printable
// string and back.
//
// The packed form is
//
//	"C01:" + base45(zlib(envelope))
//
// which fits QR alphanumeric mode and survives copy and paste through
// systems that mangle binary or lowercase text. Packing has no failure
// modes for valid input; the error returns exist because the zlib
// writer's interface has them.
//
// Deflate output is not byte-stable across compressor implementations,
// so the packed string is not a canonical form. Verifiers must compare
// unpacked envelopes, never packed strings.
package textpack
