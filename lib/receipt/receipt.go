// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

package receipt

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/zeebo/blake3"

	"github.com/certpack/certpack/lib/codec"
)

// FormatVersion is written into every receipt.
const FormatVersion = 1

// Fingerprint is a 32-byte BLAKE3 keyed hash of a package string.
type Fingerprint [32]byte

// String returns the fingerprint in lowercase hex.
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// fingerprintKey is "certpack.receipt" zero-padded to the 32 bytes
// BLAKE3 keyed mode requires.
var fingerprintKey = [32]byte{
	'c', 'e', 'r', 't', 'p', 'a', 'c', 'k', '.', 'r', 'e', 'c', 'e', 'i', 'p', 't',
}

// FingerprintOf computes the receipt fingerprint of an encoded package.
func FingerprintOf(encoded string) Fingerprint {
	hasher, err := blake3.NewKeyed(fingerprintKey[:])
	if err != nil {
		panic("receipt: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write([]byte(encoded))
	var fingerprint Fingerprint
	copy(fingerprint[:], hasher.Sum(nil))
	return fingerprint
}

// Receipt is one certification record.
type Receipt struct {
	Version       int         `cbor:"version"`
	Package       string      `cbor:"package"`
	Fingerprint   Fingerprint `cbor:"fingerprint"`
	Hash          string      `cbor:"hash"`
	HashAlgorithm string      `cbor:"hash_algorithm"`
	PackageType   string      `cbor:"package_type"`
	DeviceID      string      `cbor:"device_id"`
	Stage         string      `cbor:"stage"`
	CreatedAt     time.Time   `cbor:"created_at"`
}

// New returns a receipt for encoded with its fingerprint filled in.
// The remaining fields are copied from the caller.
func New(encoded string, fields Receipt) Receipt {
	fields.Version = FormatVersion
	fields.Package = encoded
	fields.Fingerprint = FingerprintOf(encoded)
	return fields
}

// ErrFingerprintMismatch is returned by Verify when the package does not
// match the stored fingerprint.
var ErrFingerprintMismatch = errors.New("receipt: fingerprint does not match package")

// Verify checks the fingerprint against the package string.
func (r Receipt) Verify() error {
	if r.Version != FormatVersion {
		return fmt.Errorf("receipt: unsupported version %d", r.Version)
	}
	if FingerprintOf(r.Package) != r.Fingerprint {
		return ErrFingerprintMismatch
	}
	return nil
}

// Append encodes r and appends it to the log at path, creating the file
// if needed.
func Append(path string, r Receipt) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("receipt: opening log: %w", err)
	}
	if err := codec.NewEncoder(file).Encode(r); err != nil {
		file.Close()
		return fmt.Errorf("receipt: writing %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("receipt: closing %s: %w", path, err)
	}
	return nil
}

// ReadLog decodes every receipt in the log at path.
func ReadLog(path string) ([]Receipt, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("receipt: opening log: %w", err)
	}
	defer file.Close()

	var receipts []Receipt
	decoder := codec.NewDecoder(file)
	for {
		var r Receipt
		if err := decoder.Decode(&r); err != nil {
			if errors.Is(err, io.EOF) {
				return receipts, nil
			}
			return receipts, fmt.Errorf("receipt: decoding entry %d of %s: %w", len(receipts), path, err)
		}
		receipts = append(receipts, r)
	}
}

// Dump writes each entry of a receipt log in CBOR diagnostic notation,
// one per line.
func Dump(w io.Writer, data []byte) error {
	var buffer bytes.Buffer
	for index := 0; len(data) > 0; index++ {
		notation, rest, err := codec.DiagnoseFirst(data)
		if err != nil {
			return fmt.Errorf("receipt: entry %d: %w", index, err)
		}
		buffer.WriteString(strings.TrimSpace(notation))
		buffer.WriteByte('\n')
		data = rest
	}
	_, err := w.Write(buffer.Bytes())
	return err
}
