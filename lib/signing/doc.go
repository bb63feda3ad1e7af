// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

// Package signing talks to the remote certification (signing) service.
//
// [Client.Submit] posts a base64 payload hash for a device identity and
// returns the service's JSON [Response]. Every failure is a
// *failure.Error carrying exactly one classification:
//
//	no response (transport error)  CERTIFICATION_UNAVAILABLE
//	400                            BAD_REQUEST
//	401, 403, 405                  NOT_AUTHORIZED
//	404                            ID_CANNOT_BE_FOUND
//	409                            CERTIFICATE_ALREADY_EXISTS
//	500                            INTERNAL_SERVER_ERROR
//	any other non-200              UNKNOWN_ERROR
//
// Error responses may name backend sub-codes (for example "NA401-1000").
// They are kept verbatim in failure.Error.BackendCodes; those the
// translator recognizes become the newline-joined failure message.
//
// A 200 response can still carry embedded backend errors.
// [Response.Envelope] checks for them before extracting the signed
// envelope (UPP).
//
// The HTTP transport is a [Doer], so callers (and tests) can substitute
// anything that turns a request into a response. The endpoint comes
// from a fixed per-[Stage] table and cannot be overridden.
package signing
