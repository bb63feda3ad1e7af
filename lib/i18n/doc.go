// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

// Package i18n renders certpack event codes as display strings.
//
// Message catalogs are YAML files embedded at compile time, one per
// language, each with four sections keyed by code:
//
//	error:                failure codes
//	backend:              sub-codes reported by the certification service
//	info:                 progress notifications
//	certification-state:  PENDING / SUCCESSFUL / FAILED
//
// A lookup key is "<section>.<code>", for example
// "error.NOT_AUTHORIZED" or "backend.NA401-1000". Messages may contain
// {{name}} placeholders filled from the values passed to
// [Catalog.Translate]. A key missing from the requested language falls
// back to [DefaultLanguage].
package i18n
