// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

package signing

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/certpack/certpack/lib/failure"
)

// BackendErrorHeader names the header that carries backend sub-codes,
// both inside the response body and on the HTTP response itself.
const BackendErrorHeader = "X-Err"

// Response is the JSON body the signing service returns.
type Response struct {
	Version string        `json:"version,omitempty"`
	OK      bool          `json:"ok"`
	Data    *ResponseData `json:"data,omitempty"`
}

// ResponseData wraps the backend's answer.
type ResponseData struct {
	Status  int             `json:"status,omitempty"`
	Headers json.RawMessage `json:"headers,omitempty"`
	Body    *ResponseBody   `json:"body,omitempty"`
}

// ResponseBody holds the signed envelope and the backend's own response
// metadata.
type ResponseBody struct {
	Hash      string          `json:"hash,omitempty"`
	UPP       string          `json:"upp,omitempty"`
	PublicKey string          `json:"publicKey,omitempty"`
	Response  BackendResponse `json:"response"`
	Content   string          `json:"content,omitempty"`
}

// BackendResponse is the backend's status and headers as relayed by the
// service. Header values are kept raw because only X-Err has a known
// shape.
type BackendResponse struct {
	StatusCode int                        `json:"statusCode,omitempty"`
	Header     map[string]json.RawMessage `json:"header,omitempty"`
}

// BackendErrors returns the sub-codes in the embedded X-Err header, in
// order. The header is normally a list of strings; a single
// comma-separated string is accepted too.
func (b *BackendResponse) BackendErrors() []string {
	raw, ok := b.Header[BackendErrorHeader]
	if !ok {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return nonEmpty(list)
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return splitCodes(single)
	}
	return nil
}

// Envelope extracts the signed envelope bytes.
//
// A response without a body fails with UNKNOWN_ERROR. Embedded backend
// errors fail with CERTIFICATION_CALL_ERROR even though the HTTP status
// was 200; the message is composed from the sub-codes translate
// recognizes. A missing, empty, or undecodable envelope fails with
// CERTIFICATION_FAILED_NO_UPP.
func (r *Response) Envelope(translate TranslateFunc) ([]byte, error) {
	if r == nil || r.Data == nil || r.Data.Body == nil {
		return nil, &failure.Error{Code: failure.UnknownError, Details: "signing response has no body"}
	}
	body := r.Data.Body

	if codes := body.Response.BackendErrors(); len(codes) > 0 {
		return nil, &failure.Error{
			Code:         failure.CertificationCallError,
			Message:      ComposeMessage(codes, translate),
			BackendCodes: codes,
			Details:      strings.Join(codes, ", "),
		}
	}

	if body.UPP == "" {
		return nil, &failure.Error{Code: failure.CertificationFailedNoUPP}
	}
	envelope, err := base64.StdEncoding.DecodeString(body.UPP)
	if err != nil {
		return nil, &failure.Error{
			Code:    failure.CertificationFailedNoUPP,
			Details: fmt.Sprintf("decoding upp: %v", err),
			Err:     err,
		}
	}
	if len(envelope) == 0 {
		return nil, &failure.Error{Code: failure.CertificationFailedNoUPP}
	}
	return envelope, nil
}

// TranslateFunc resolves a backend sub-code to a localized fragment.
// It reports false for codes it does not know.
type TranslateFunc func(code string) (string, bool)

// ComposeMessage joins the fragments of the recognized codes with "\n",
// in the order given. Unrecognized codes are skipped. The result is
// empty when nothing resolves or translate is nil.
func ComposeMessage(codes []string, translate TranslateFunc) string {
	if translate == nil {
		return ""
	}
	var fragments []string
	for _, code := range codes {
		if fragment, ok := translate(code); ok && fragment != "" {
			fragments = append(fragments, fragment)
		}
	}
	return strings.Join(fragments, "\n")
}

// ClassifyStatus maps a non-200 HTTP status to its failure code.
func ClassifyStatus(status int) failure.Code {
	switch status {
	case http.StatusBadRequest:
		return failure.BadRequest
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusMethodNotAllowed:
		return failure.NotAuthorized
	case http.StatusNotFound:
		return failure.IDCannotBeFound
	case http.StatusConflict:
		return failure.CertificateAlreadyExists
	case http.StatusInternalServerError:
		return failure.InternalServerError
	default:
		return failure.UnknownError
	}
}

// errorCodes finds the backend sub-codes of an error response: first in
// the JSON body's embedded header, then in the X-Err HTTP header.
func errorCodes(body []byte, header http.Header) []string {
	var response Response
	if err := json.Unmarshal(body, &response); err == nil && response.Data != nil && response.Data.Body != nil {
		if codes := response.Data.Body.Response.BackendErrors(); len(codes) > 0 {
			return codes
		}
	}
	var codes []string
	for _, value := range header.Values(BackendErrorHeader) {
		codes = append(codes, splitCodes(value)...)
	}
	return codes
}

func splitCodes(value string) []string {
	return nonEmpty(strings.Split(value, ","))
}

func nonEmpty(values []string) []string {
	var result []string
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
