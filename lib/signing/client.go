// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

package signing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/certpack/certpack/lib/failure"
	"github.com/certpack/certpack/lib/netutil"
	"github.com/certpack/certpack/lib/version"
)

// Request header names and the fixed envelope type the client asks for.
const (
	HeaderContentType = "Content-Type"
	HeaderUPPType     = "X-UPP-Type-Id"
	HeaderIdentity    = "X-Identity-Id"
	HeaderUserAgent   = "User-Agent"

	UPPTypeSigned = "signed"
)

// Doer sends an HTTP request and returns its response. *http.Client
// implements it.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// Stage selects the endpoint. Empty means DefaultStage.
	Stage Stage
	// Doer performs the HTTP exchange. If nil, http.DefaultClient is used.
	Doer Doer
	// Translate resolves backend sub-codes for failure messages. If nil,
	// messages stay empty and only BackendCodes are reported.
	Translate TranslateFunc
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Client submits hashes to the signing service of one stage.
type Client struct {
	stage     Stage
	url       string
	doer      Doer
	translate TranslateFunc
	logger    *slog.Logger
}

// NewClient creates a client. An unknown stage is an error. A known
// stage without an endpoint (qa) is accepted; every Submit on it fails
// with CERTIFICATION_UNAVAILABLE.
func NewClient(config ClientConfig) (*Client, error) {
	stage := config.Stage
	if stage == "" {
		stage = DefaultStage
	}
	url, err := stage.URL()
	if err != nil && !errors.Is(err, ErrNoEndpoint) {
		return nil, err
	}

	doer := config.Doer
	if doer == nil {
		doer = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		stage:     stage,
		url:       url,
		doer:      doer,
		translate: config.Translate,
		logger:    logger,
	}, nil
}

// Stage returns the stage the client submits to.
func (c *Client) Stage() Stage {
	return c.stage
}

// Submit posts hash for deviceID and returns the decoded 200 response.
// Any other outcome is a *failure.Error. Submit does not retry and
// imposes no timeout of its own; ctx bounds the exchange.
func (c *Client) Submit(ctx context.Context, hash, deviceID string) (*Response, error) {
	if c.url == "" {
		return nil, &failure.Error{
			Code:    failure.CertificationUnavailable,
			Details: fmt.Sprintf("no signing endpoint for stage %s", c.stage),
			Err:     ErrNoEndpoint,
		}
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(hash))
	if err != nil {
		return nil, fmt.Errorf("signing: creating request: %w", err)
	}
	request.Header.Set(HeaderContentType, "text/plain")
	request.Header.Set(HeaderUPPType, UPPTypeSigned)
	request.Header.Set(HeaderIdentity, deviceID)
	request.Header.Set(HeaderUserAgent, version.UserAgent())

	c.logger.Debug("submitting hash for signing",
		"stage", c.stage,
		"url", c.url,
		"device_id", deviceID,
	)

	response, err := c.doer.Do(request)
	if err != nil {
		c.logger.Warn("signing service unreachable", "stage", c.stage, "error", err)
		return nil, &failure.Error{
			Code:    failure.CertificationUnavailable,
			Details: err.Error(),
			Err:     err,
		}
	}
	defer response.Body.Close()

	body, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, &failure.Error{
			Code:    failure.CertificationUnavailable,
			Details: fmt.Sprintf("reading response body: %v", err),
			Err:     err,
		}
	}

	c.logger.Debug("signing service responded",
		"stage", c.stage,
		"status", response.StatusCode,
		"bytes", len(body),
	)

	if response.StatusCode != http.StatusOK {
		c.logger.Debug("signing service rejected request",
			"status", response.StatusCode,
			"body", netutil.Excerpt(body, 512),
		)
		codes := errorCodes(body, response.Header)
		return nil, &failure.Error{
			Code:         ClassifyStatus(response.StatusCode),
			Message:      ComposeMessage(codes, c.translate),
			BackendCodes: codes,
			Details:      fmt.Sprintf("HTTP %d", response.StatusCode),
		}
	}

	var decoded Response
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, &failure.Error{
			Code:    failure.UnknownError,
			Details: fmt.Sprintf("decoding signing response: %v", err),
			Err:     err,
		}
	}
	return &decoded, nil
}

// Envelope is shorthand for resp.Envelope with the client's translator.
func (c *Client) Envelope(response *Response) ([]byte, error) {
	return response.Envelope(c.translate)
}
