// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source for testability.
//
// Code that stamps results (certification packages, receipts) accepts a
// Clock instead of calling time.Now directly. In production, Real()
// provides the standard library behavior. In tests, Fake() provides a
// clock that moves only when Advance or Set is called:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	certifier, _ := certification.New(config, certification.WithClock(c))
//	result := certifier.CertifyJSON(ctx, document)
//	// result.Package.CreatedAt == c.Now()
package clock
