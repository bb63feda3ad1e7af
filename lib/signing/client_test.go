// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

package signing

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/certpack/certpack/lib/failure"
)

// serverDoer sends every request to a test server, remembering the URL
// the client originally addressed.
type serverDoer struct {
	server    *httptest.Server
	requested []string
}

func (d *serverDoer) Do(request *http.Request) (*http.Response, error) {
	d.requested = append(d.requested, request.URL.String())
	target, err := url.Parse(d.server.URL)
	if err != nil {
		return nil, err
	}
	redirected := request.Clone(request.Context())
	redirected.URL.Scheme = target.Scheme
	redirected.URL.Host = target.Host
	redirected.Host = target.Host
	redirected.RequestURI = ""
	return d.server.Client().Do(redirected)
}

type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(request *http.Request) (*http.Response, error) { return f(request) }

var testFragments = map[string]string{
	"NA401-1000": "Authentication Error: Error processing authentication response/Failed Request - Niomon Auth",
	"NF409-0030": "Integrity Error: Delete non-existing hash - Niomon Filter",
	"ND403-1100": "Invalid Verification: Invalid parts - Niomon Decoder",
}

func testTranslate(code string) (string, bool) {
	fragment, ok := testFragments[code]
	return fragment, ok
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *serverDoer) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	doer := &serverDoer{server: server}
	client, err := NewClient(ClientConfig{Stage: Demo, Doer: doer, Translate: testTranslate})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client, doer
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, value any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(value); err != nil {
		t.Errorf("encoding response: %v", err)
	}
}

func backendErrorBody(codes ...string) map[string]any {
	return map[string]any{
		"ok": false,
		"data": map[string]any{
			"body": map[string]any{
				"response": map[string]any{
					"header": map[string]any{"X-Err": codes},
				},
			},
		},
	}
}

func TestSubmitRequest(t *testing.T) {
	const hash = "WFOCrSiXH+1MYYp2sL918SDsL4XLVePLCHFm11hrJqc="

	client, doer := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/api/v1/x509/anchor" {
			t.Errorf("path = %s, want /api/v1/x509/anchor", r.URL.Path)
		}
		if got := r.Header.Get("Content-Type"); got != "text/plain" {
			t.Errorf("Content-Type = %q, want text/plain", got)
		}
		if got := r.Header.Get("X-UPP-Type-Id"); got != "signed" {
			t.Errorf("X-UPP-Type-Id = %q, want signed", got)
		}
		if got := r.Header.Get("X-Identity-Id"); got != "device-1" {
			t.Errorf("X-Identity-Id = %q, want device-1", got)
		}
		if got := r.Header.Get("User-Agent"); !strings.HasPrefix(got, "certpack/") {
			t.Errorf("User-Agent = %q, want certpack/...", got)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != hash {
			t.Errorf("body = %q, want %q", body, hash)
		}
		writeJSON(t, w, http.StatusOK, map[string]any{
			"ok": true,
			"data": map[string]any{
				"status": 200,
				"body":   map[string]any{"hash": hash, "upp": "lSI=", "response": map[string]any{"statusCode": 200}},
			},
		})
	})

	response, err := client.Submit(context.Background(), hash, "device-1")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !response.OK || response.Data == nil || response.Data.Body == nil {
		t.Fatalf("unexpected response: %+v", response)
	}
	if response.Data.Body.UPP != "lSI=" {
		t.Errorf("UPP = %q, want lSI=", response.Data.Body.UPP)
	}
	if len(doer.requested) != 1 || doer.requested[0] != "https://api.certify.demo.ubirch.com/api/v1/x509/anchor" {
		t.Errorf("requested %v, want the demo endpoint", doer.requested)
	}
}

func TestSubmitStatusClassification(t *testing.T) {
	tests := []struct {
		status int
		want   failure.Code
	}{
		{http.StatusBadRequest, failure.BadRequest},
		{http.StatusUnauthorized, failure.NotAuthorized},
		{http.StatusForbidden, failure.NotAuthorized},
		{http.StatusMethodNotAllowed, failure.NotAuthorized},
		{http.StatusNotFound, failure.IDCannotBeFound},
		{http.StatusConflict, failure.CertificateAlreadyExists},
		{http.StatusInternalServerError, failure.InternalServerError},
		{http.StatusBadGateway, failure.UnknownError},
		{http.StatusTeapot, failure.UnknownError},
		{http.StatusCreated, failure.UnknownError},
	}
	for _, test := range tests {
		t.Run(http.StatusText(test.status), func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(test.status)
			})
			_, err := client.Submit(context.Background(), "hash", "device")
			var certErr *failure.Error
			if !errors.As(err, &certErr) {
				t.Fatalf("Submit error = %v, want *failure.Error", err)
			}
			if certErr.Code != test.want {
				t.Errorf("Code = %s, want %s", certErr.Code, test.want)
			}
			if certErr.Message != "" || len(certErr.BackendCodes) != 0 {
				t.Errorf("unexpected message %q / codes %v", certErr.Message, certErr.BackendCodes)
			}
		})
	}
}

func TestSubmitBackendCodes(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		codes       []string
		headerCodes string
		wantCode    failure.Code
		wantMessage string
		wantCodes   []string
	}{
		{
			name:        "one recognized code",
			status:      http.StatusUnauthorized,
			codes:       []string{"NA401-1000"},
			wantCode:    failure.NotAuthorized,
			wantMessage: testFragments["NA401-1000"],
			wantCodes:   []string{"NA401-1000"},
		},
		{
			name:        "two codes keep received order",
			status:      http.StatusConflict,
			codes:       []string{"NF409-0030", "NA401-1000"},
			wantCode:    failure.CertificateAlreadyExists,
			wantMessage: testFragments["NF409-0030"] + "\n" + testFragments["NA401-1000"],
			wantCodes:   []string{"NF409-0030", "NA401-1000"},
		},
		{
			name:        "unrecognized code leaves message empty",
			status:      http.StatusUnauthorized,
			codes:       []string{"unknown-code"},
			wantCode:    failure.NotAuthorized,
			wantMessage: "",
			wantCodes:   []string{"unknown-code"},
		},
		{
			name:        "unrecognized codes are skipped in the message only",
			status:      http.StatusUnauthorized,
			codes:       []string{"unknown-code", "NA401-1000"},
			wantCode:    failure.NotAuthorized,
			wantMessage: testFragments["NA401-1000"],
			wantCodes:   []string{"unknown-code", "NA401-1000"},
		},
		{
			name:        "http header fallback",
			status:      http.StatusForbidden,
			headerCodes: "ND403-1100, NA401-1000",
			wantCode:    failure.NotAuthorized,
			wantMessage: testFragments["ND403-1100"] + "\n" + testFragments["NA401-1000"],
			wantCodes:   []string{"ND403-1100", "NA401-1000"},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if test.headerCodes != "" {
					w.Header().Set("X-Err", test.headerCodes)
					w.WriteHeader(test.status)
					return
				}
				writeJSON(t, w, test.status, backendErrorBody(test.codes...))
			})

			_, err := client.Submit(context.Background(), "hash", "device")
			var certErr *failure.Error
			if !errors.As(err, &certErr) {
				t.Fatalf("Submit error = %v, want *failure.Error", err)
			}
			if certErr.Code != test.wantCode {
				t.Errorf("Code = %s, want %s", certErr.Code, test.wantCode)
			}
			if certErr.Message != test.wantMessage {
				t.Errorf("Message = %q, want %q", certErr.Message, test.wantMessage)
			}
			if strings.Join(certErr.BackendCodes, "|") != strings.Join(test.wantCodes, "|") {
				t.Errorf("BackendCodes = %v, want %v", certErr.BackendCodes, test.wantCodes)
			}
		})
	}
}

func TestSubmitTransportError(t *testing.T) {
	transportErr := errors.New("dial tcp: connection refused")
	client, err := NewClient(ClientConfig{
		Stage: Prod,
		Doer: doerFunc(func(*http.Request) (*http.Response, error) {
			return nil, transportErr
		}),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = client.Submit(context.Background(), "hash", "device")
	var certErr *failure.Error
	if !errors.As(err, &certErr) {
		t.Fatalf("Submit error = %v, want *failure.Error", err)
	}
	if certErr.Code != failure.CertificationUnavailable {
		t.Errorf("Code = %s, want CERTIFICATION_UNAVAILABLE", certErr.Code)
	}
	if certErr.Details != transportErr.Error() {
		t.Errorf("Details = %q, want %q", certErr.Details, transportErr.Error())
	}
	if !errors.Is(err, transportErr) {
		t.Error("transport error is not in the chain")
	}
}

func TestSubmitWithoutEndpoint(t *testing.T) {
	called := false
	client, err := NewClient(ClientConfig{
		Stage: QA,
		Doer: doerFunc(func(*http.Request) (*http.Response, error) {
			called = true
			return nil, errors.New("unreachable")
		}),
	})
	if err != nil {
		t.Fatalf("NewClient(qa): %v", err)
	}
	_, err = client.Submit(context.Background(), "hash", "device")
	if !failure.Is(err, failure.CertificationUnavailable) {
		t.Errorf("Submit(qa) error = %v, want CERTIFICATION_UNAVAILABLE", err)
	}
	if !errors.Is(err, ErrNoEndpoint) {
		t.Errorf("Submit(qa) error does not wrap ErrNoEndpoint")
	}
	if called {
		t.Error("transport was used for a stage without endpoint")
	}
}

func TestSubmitCanceledContext(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request reached the server despite canceled context")
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Submit(ctx, "hash", "device")
	if !failure.Is(err, failure.CertificationUnavailable) {
		t.Errorf("Submit(canceled) error = %v, want CERTIFICATION_UNAVAILABLE", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Submit(canceled) error does not wrap context.Canceled: %v", err)
	}
}

func TestSubmitUndecodableSuccess(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>maintenance</html>"))
	})
	_, err := client.Submit(context.Background(), "hash", "device")
	if !failure.Is(err, failure.UnknownError) {
		t.Errorf("Submit error = %v, want UNKNOWN_ERROR", err)
	}
}

func TestNewClient(t *testing.T) {
	client, err := NewClient(ClientConfig{})
	if err != nil {
		t.Fatalf("NewClient(zero config): %v", err)
	}
	if client.Stage() != Prod {
		t.Errorf("default Stage = %s, want prod", client.Stage())
	}
	if client.url != "https://api.certify.ubirch.com/api/v1/x509/anchor" {
		t.Errorf("default url = %s", client.url)
	}

	if _, err := NewClient(ClientConfig{Stage: "staging"}); err == nil {
		t.Error("NewClient accepted an unknown stage")
	}
}
