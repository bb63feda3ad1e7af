// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil bounds what certpack reads from and logs about HTTP
// responses.
//
// The signing service answers with a small JSON envelope. ReadResponse
// caps every body read at MaxResponseSize; a body over the cap is an
// error, never a silent truncation that would later surface as a
// confusing JSON syntax error. Excerpt shortens a body for log lines.
package netutil

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// MaxResponseSize is the bound on response body reads: 1 MB. A signing
// response carries one envelope of a few hundred bytes plus metadata.
const MaxResponseSize int64 = 1 << 20

// ReadResponse reads a response body up to MaxResponseSize bytes. Use
// instead of io.ReadAll when reading HTTP response bodies.
func ReadResponse(body io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(body, MaxResponseSize+1))
	if err != nil {
		return data, err
	}
	if int64(len(data)) > MaxResponseSize {
		return nil, fmt.Errorf("response body exceeds %d bytes", MaxResponseSize)
	}
	return data, nil
}

// Excerpt returns at most limit bytes of body as trimmed text, cut on a
// rune boundary, with a note of how much was left out.
func Excerpt(body []byte, limit int) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= limit {
		return text
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return fmt.Sprintf("%s... (%d more bytes)", text[:cut], len(text)-cut)
}
