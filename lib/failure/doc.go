// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

// Package failure defines the closed error taxonomy of the certification
// pipeline.
//
// Every error that crosses a package boundary inside certpack is either a
// plain wrapped error (programming or I/O faults) or a [*Error] carrying a
// [Code]. The orchestrator converts anything that is not already a
// [*Error] into [UnknownError] at its boundary, so callers only ever see
// the codes listed in [Codes].
//
// Backend sub-codes (NA401-1000 and friends) are not Codes. They travel
// verbatim in [Error].BackendCodes and are resolved to text by the
// localization catalog.
//
// This package depends on no other certpack packages.
package failure
