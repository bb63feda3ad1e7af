// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

package certification

import (
	"github.com/certpack/certpack/lib/failure"
	"github.com/certpack/certpack/lib/i18n"
)

// Event is one notification on a Certifier's event stream. The concrete
// type is one of InfoEvent, ErrorEvent, or StateEvent.
type Event interface {
	// Kind names the event's catalog section: "info", "error", or
	// "certification-state".
	Kind() string
	// Text returns the localized message.
	Text() string

	sealed()
}

// InfoCode identifies a progress notification.
type InfoCode string

const (
	InfoPayloadHashed          InfoCode = "PAYLOAD_HASHED"
	InfoCertificationRequested InfoCode = "CERTIFICATION_REQUESTED"
	InfoPackageCreated         InfoCode = "PACKAGE_CREATED"
)

// StateCode identifies a state transition on the event stream.
type StateCode string

const (
	StatePending    StateCode = "CERTIFICATION_PENDING"
	StateSuccessful StateCode = "CERTIFICATION_SUCCESSFUL"
	StateFailed     StateCode = "CERTIFICATION_FAILED"
)

// Code returns the event code announcing a transition into s.
func (s State) Code() StateCode {
	switch s {
	case Pending:
		return StatePending
	case Successful:
		return StateSuccessful
	default:
		return StateFailed
	}
}

// InfoEvent reports progress.
type InfoEvent struct {
	Code    InfoCode
	Message string
}

// ErrorEvent reports a failure. It always precedes the terminal
// StateEvent of the same run.
type ErrorEvent struct {
	Code    failure.Code
	Message string
	// Details is diagnostic text such as the transport error.
	Details string
}

// StateEvent reports a state transition and carries a snapshot of the
// run's result at that point.
type StateEvent struct {
	Code    StateCode
	Message string
	Result  Result
}

func (InfoEvent) Kind() string  { return i18n.SectionInfo }
func (ErrorEvent) Kind() string { return i18n.SectionError }
func (StateEvent) Kind() string { return i18n.SectionCertificationState }

func (e InfoEvent) Text() string  { return e.Message }
func (e ErrorEvent) Text() string { return e.Message }
func (e StateEvent) Text() string { return e.Message }

func (InfoEvent) sealed()  {}
func (ErrorEvent) sealed() {}
func (StateEvent) sealed() {}
