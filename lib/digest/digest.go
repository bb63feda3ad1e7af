// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"hash"
	"io"
	"strings"
)

// Algorithm names a supported hash function.
type Algorithm string

const (
	// SHA256 is the default algorithm. The signing service expects it
	// unless configured otherwise.
	SHA256 Algorithm = "sha256"
	// SHA512 produces 64-byte digests.
	SHA512 Algorithm = "sha512"
)

// ParseAlgorithm accepts the algorithm name in any letter case, with or
// without a dash ("SHA-256", "sha256", "SHA256").
func ParseAlgorithm(name string) (Algorithm, error) {
	normalized := Algorithm(strings.ToLower(strings.ReplaceAll(name, "-", "")))
	if err := normalized.Validate(); err != nil {
		return "", err
	}
	return normalized, nil
}

// Validate reports an error for algorithms other than SHA256 and SHA512.
func (a Algorithm) Validate() error {
	switch a {
	case SHA256, SHA512:
		return nil
	default:
		return fmt.Errorf("digest: unsupported hash algorithm %q", string(a))
	}
}

// Size returns the digest length in bytes.
func (a Algorithm) Size() int {
	switch a {
	case SHA512:
		return sha512.Size
	default:
		return sha256.Size
	}
}

// New returns a fresh hash.Hash for the algorithm.
func (a Algorithm) New() (hash.Hash, error) {
	switch a {
	case SHA256:
		return sha256.New(), nil
	case SHA512:
		return sha512.New(), nil
	default:
		return nil, a.Validate()
	}
}

// Sum returns the raw digest of data.
func Sum(algorithm Algorithm, data []byte) ([]byte, error) {
	hasher, err := algorithm.New()
	if err != nil {
		return nil, err
	}
	hasher.Write(data)
	return hasher.Sum(nil), nil
}

// SumReader streams r through the hash function.
func SumReader(algorithm Algorithm, r io.Reader) ([]byte, error) {
	hasher, err := algorithm.New()
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(hasher, r); err != nil {
		return nil, fmt.Errorf("digest: hashing stream: %w", err)
	}
	return hasher.Sum(nil), nil
}

// String returns the standard-base64 digest of data. This is the form
// submitted to the signing service.
func String(algorithm Algorithm, data []byte) (string, error) {
	sum, err := Sum(algorithm, data)
	if err != nil {
		return "", err
	}
	return Format(sum), nil
}

// Format renders a raw digest as standard base64 with padding.
func Format(sum []byte) string {
	return base64.StdEncoding.EncodeToString(sum)
}

// Parse decodes a base64 digest and checks its length against the
// algorithm.
func Parse(algorithm Algorithm, encoded string) ([]byte, error) {
	if err := algorithm.Validate(); err != nil {
		return nil, err
	}
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("digest: parsing %s digest: %w", algorithm, err)
	}
	if len(decoded) != algorithm.Size() {
		return nil, fmt.Errorf("digest: %s digest is %d bytes, want %d", algorithm, len(decoded), algorithm.Size())
	}
	return decoded, nil
}
