// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

package failure

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a certification error code. The set is closed: every failure
// surfaced to a caller carries exactly one of the constants below.
type Code string

const (
	// CertificationUnavailable: the transport produced no response.
	CertificationUnavailable Code = "CERTIFICATION_UNAVAILABLE"
	// CertificationCallError: the signing service answered but embedded
	// backend errors in the response body.
	CertificationCallError Code = "CERTIFICATION_CALL_ERROR"
	// CertificationFailedNoUPP: the response carried no envelope.
	CertificationFailedNoUPP Code = "CERTIFICATION_FAILED_NO_UPP"

	MissingDeviceID Code = "MISSING_DEVICE_ID"
	InvalidConfig   Code = "INVALID_CONFIG"

	JSONMalformed     Code = "JSON_MALFORMED"
	NotYetImplemented Code = "NOT_YET_IMPLEMENTED"

	BadRequest               Code = "BAD_REQUEST"
	IDCannotBeFound          Code = "ID_CANNOT_BE_FOUND"
	NotAuthorized            Code = "NOT_AUTHORIZED"
	CertificateAlreadyExists Code = "CERTIFICATE_ALREADY_EXISTS"
	InternalServerError      Code = "INTERNAL_SERVER_ERROR"
	UnknownError             Code = "UNKNOWN_ERROR"
)

// Codes lists every Code in declaration order.
var Codes = []Code{
	CertificationUnavailable,
	CertificationCallError,
	CertificationFailedNoUPP,
	MissingDeviceID,
	InvalidConfig,
	JSONMalformed,
	NotYetImplemented,
	BadRequest,
	IDCannotBeFound,
	NotAuthorized,
	CertificateAlreadyExists,
	InternalServerError,
	UnknownError,
}

// Error is a classified certification failure. Callers extract the
// structured information with errors.As:
//
//	var certErr *failure.Error
//	if errors.As(err, &certErr) {
//	    if certErr.Code == failure.NotAuthorized { ... }
//	}
type Error struct {
	// Code is the classification.
	Code Code

	// Message is the composed, localized message. Empty when nothing
	// could be resolved (for example only unrecognized backend codes).
	Message string

	// BackendCodes are the raw sub-codes reported by the signing
	// service, verbatim and in received order, including codes that
	// have no localized text.
	BackendCodes []string

	// Details carries diagnostic text that is not part of the localized
	// message, such as the transport error string.
	Details string

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	var builder strings.Builder
	builder.WriteString(string(e.Code))
	if e.Message != "" {
		builder.WriteString(": ")
		builder.WriteString(strings.ReplaceAll(e.Message, "\n", "; "))
	}
	if len(e.BackendCodes) > 0 {
		fmt.Fprintf(&builder, " [%s]", strings.Join(e.BackendCodes, ", "))
	}
	if e.Err != nil {
		builder.WriteString(": ")
		builder.WriteString(e.Err.Error())
	} else if e.Details != "" {
		builder.WriteString(": ")
		builder.WriteString(e.Details)
	}
	return builder.String()
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an Error with the given code and no message.
func New(code Code) *Error {
	return &Error{Code: code}
}

// Wrap returns an Error with the given code wrapping err. The error's
// text becomes the Details.
func Wrap(code Code, err error) *Error {
	failureErr := &Error{Code: code, Err: err}
	if err != nil {
		failureErr.Details = err.Error()
	}
	return failureErr
}

// CodeOf returns the Code of the first *Error in err's chain, or
// UnknownError when there is none.
func CodeOf(err error) Code {
	var failureErr *Error
	if errors.As(err, &failureErr) {
		return failureErr.Code
	}
	return UnknownError
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	var failureErr *Error
	if errors.As(err, &failureErr) {
		return failureErr.Code == code
	}
	return false
}

// Valid reports whether code is a member of the taxonomy.
func (c Code) Valid() bool {
	for _, known := range Codes {
		if c == known {
			return true
		}
	}
	return false
}
