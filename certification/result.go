// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

package certification

import (
	"slices"
	"time"

	"github.com/certpack/certpack/lib/failure"
)

// State is the position of a certification run in its state machine.
// PENDING is the only non-terminal state.
type State string

const (
	Pending    State = "PENDING"
	Successful State = "SUCCESSFUL"
	Failed     State = "FAILED"
)

// Lifecycle is the state of a produced package. This library only ever
// creates packages; anchoring happens elsewhere.
type Lifecycle string

const (
	Created  Lifecycle = "created"
	Anchored Lifecycle = "anchored"
)

// Package is a finished certification package.
type Package struct {
	// Encoded is "C01:" followed by the base45 text of the compressed
	// envelope.
	Encoded   string      `json:"encoded"`
	Lifecycle Lifecycle   `json:"lifecycle"`
	Type      PackageType `json:"type"`
	CreatedAt time.Time   `json:"created_at"`
}

// Failure describes why a run failed.
type Failure struct {
	Code failure.Code `json:"code"`
	// Message is composed from the localized texts of recognized
	// backend sub-codes. It is empty when none were recognized.
	Message string `json:"message,omitempty"`
	// BackendCodes are the raw sub-codes reported by the signing
	// service, including unrecognized ones.
	BackendCodes []string `json:"backend_codes,omitempty"`
}

// Result is the outcome of one certification call.
type Result struct {
	State   State    `json:"state"`
	Package *Package `json:"package,omitempty"`
	Failure *Failure `json:"failure,omitempty"`
	// Hash is the base64 digest that was (or would have been) submitted
	// for signing. Empty if the run failed before hashing.
	Hash string `json:"hash,omitempty"`
}

// Err returns the failure as a *failure.Error, or nil for a result that
// did not fail.
func (r Result) Err() error {
	if r.Failure == nil {
		return nil
	}
	return &failure.Error{
		Code:         r.Failure.Code,
		Message:      r.Failure.Message,
		BackendCodes: slices.Clone(r.Failure.BackendCodes),
	}
}

// clone returns a deep copy, so snapshots handed to subscribers never
// alias the run's own result.
func (r Result) clone() Result {
	if r.Package != nil {
		pkg := *r.Package
		r.Package = &pkg
	}
	if r.Failure != nil {
		f := *r.Failure
		f.BackendCodes = slices.Clone(f.BackendCodes)
		r.Failure = &f
	}
	return r
}
