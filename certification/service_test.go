// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

package certification

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// referenceUPP is a signed envelope from the signing service whose
// payload field still holds the hash.
const referenceUPP = "lSLEEFjc3bREqFSCqXOVVBOUwLoAxCA4CSN9J2/kHfv6U93LoiIlKhxLYkG17M+IlUCB/rtTN8RA59VexuYkHGlHeZggox3ZorLouWvGICW2ZPNB2wTDMXJY0sm7w8H89CXCp/sQQVhOWTsHQFWTv2YhLj6e6akNew=="

// recordedRequest is what the fake service saw.
type recordedRequest struct {
	URL    string
	Header http.Header
	Body   string
}

// fakeService is a signing.Doer that serves requests in-process with an
// http.HandlerFunc and records them.
type fakeService struct {
	handler http.HandlerFunc
	err     error

	mutex    sync.Mutex
	requests []recordedRequest
}

func (s *fakeService) Do(request *http.Request) (*http.Response, error) {
	body, _ := io.ReadAll(request.Body)
	s.mutex.Lock()
	s.requests = append(s.requests, recordedRequest{
		URL:    request.URL.String(),
		Header: request.Header.Clone(),
		Body:   string(body),
	})
	s.mutex.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	if err := request.Context().Err(); err != nil {
		return nil, err
	}
	recorder := httptest.NewRecorder()
	s.handler(recorder, request)
	return recorder.Result(), nil
}

func (s *fakeService) calls() []recordedRequest {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return append([]recordedRequest(nil), s.requests...)
}

func respondJSON(status int, value any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(value)
	}
}

func signedResponse(upp string) map[string]any {
	return map[string]any{
		"version": "1.0",
		"ok":      true,
		"data": map[string]any{
			"status": 200,
			"body": map[string]any{
				"upp":      upp,
				"response": map[string]any{"statusCode": 200, "header": map[string]any{}},
			},
		},
	}
}

func backendErrors(codes ...string) map[string]any {
	return map[string]any{
		"ok": false,
		"data": map[string]any{
			"body": map[string]any{
				"response": map[string]any{"header": map[string]any{"X-Err": codes}},
			},
		},
	}
}

func succeeding() *fakeService {
	return &fakeService{handler: respondJSON(http.StatusOK, signedResponse(referenceUPP))}
}

func failing(status int, codes ...string) *fakeService {
	return &fakeService{handler: respondJSON(status, backendErrors(codes...))}
}

func unreachable() *fakeService {
	return &fakeService{err: errors.New("dial tcp 203.0.113.1:443: connect: connection refused")}
}
