// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

package textpack

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zlib"

	"github.com/certpack/certpack/lib/base45"
)

// Prefix is the format identifier of a packed certification envelope.
// It names the envelope version, not the compression: "C01" is always
// zlib + Base45.
const Prefix = "C01:"

// MaxUnpackedSize bounds inflation in [Unpack]. Signed envelopes are a
// few kilobytes; the limit only guards against decompression bombs in
// untrusted input.
const MaxUnpackedSize = 16 << 20

// ErrNotPacked is returned by [Unpack] when the input lacks [Prefix].
var ErrNotPacked = errors.New("textpack: missing " + Prefix + " prefix")

// Pack compresses envelope with zlib at the default level (no preset
// dictionary), encodes the result as Base45 and prepends [Prefix].
func Pack(envelope []byte) (string, error) {
	compressed, err := Compress(envelope)
	if err != nil {
		return "", err
	}
	return Prefix + base45.Encode(compressed), nil
}

// Compress returns the zlib stream of data at the default compression
// level. This is the body that [Pack] Base45-encodes.
func Compress(data []byte) ([]byte, error) {
	var buffer bytes.Buffer
	writer, err := zlib.NewWriterLevel(&buffer, zlib.DefaultCompression)
	if err != nil {
		return nil, fmt.Errorf("textpack: creating zlib writer: %w", err)
	}
	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return nil, fmt.Errorf("textpack: compressing: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("textpack: finishing zlib stream: %w", err)
	}
	return buffer.Bytes(), nil
}

// Unpack reverses [Pack]: it strips [Prefix], Base45-decodes and
// inflates. Surrounding whitespace is ignored so that packages copied
// from a terminal or a QR scanner decode cleanly.
func Unpack(text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, Prefix) {
		return nil, ErrNotPacked
	}

	compressed, err := base45.Decode(text[len(Prefix):])
	if err != nil {
		return nil, fmt.Errorf("textpack: %w", err)
	}
	return Decompress(compressed)
}

// Decompress inflates a zlib stream, refusing output larger than
// [MaxUnpackedSize].
func Decompress(compressed []byte) ([]byte, error) {
	reader, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("textpack: reading zlib header: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(io.LimitReader(reader, MaxUnpackedSize+1))
	if err != nil {
		return nil, fmt.Errorf("textpack: inflating: %w", err)
	}
	if len(data) > MaxUnpackedSize {
		return nil, fmt.Errorf("textpack: unpacked envelope exceeds %d bytes", MaxUnpackedSize)
	}
	return data, nil
}
