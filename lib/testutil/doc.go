// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for certpack packages.
//
// [RequireReceive], [RequireClosed], and [RequireNoReceive] encapsulate
// the timeout safety valve pattern (select with time.After fallback) so
// that individual tests do not need direct time.After calls. These are
// the only place in the test suite where real wall-clock timeouts are
// used.
//
// [WriteFile] places a fixture file in a per-test temporary directory.
//
// [UniqueID] numbers identifiers per prefix, such as distinct device
// ids per subtest.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no certpack-internal dependencies.
package testutil
