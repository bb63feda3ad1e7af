// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"bytes"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"testing"
)

// donutPayload is the msgpack encoding of the reference donut document.
const donutPayload = "86a26964a430303031a474797065a5646f6e7574a46e616d65a443616b65a3707075cb3fe199999999999aa76261747465727381a66261747465729382a26964cd03e9a474797065a7526567756c617282a26964cd03eaa474797065a943686f636f6c61746582a26964cd03eba474797065a9426c75656265727279a7746f7070696e679782a26964cd1389a474797065a44e6f6e6582a26964cd138aa474797065a6476c617a656482a26964cd138da474797065a5537567617282a26964cd138fa474797065ae506f77646572656420537567617282a26964cd138ea474797065b843686f636f6c617465207769746820537072696e6b6c657382a26964cd138ba474797065a943686f636f6c61746582a26964cd138ca474797065a54d61706c65"

func TestStringReferenceVector(t *testing.T) {
	payload, err := hex.DecodeString(donutPayload)
	if err != nil {
		t.Fatalf("decoding fixture: %v", err)
	}

	got, err := String(SHA256, payload)
	if err != nil {
		t.Fatalf("String: %v", err)
	}
	const want = "WFOCrSiXH+1MYYp2sL918SDsL4XLVePLCHFm11hrJqc="
	if got != want {
		t.Errorf("String(SHA256, donut) = %q, want %q", got, want)
	}
}

func TestSum(t *testing.T) {
	data := []byte("certpack")

	got256, err := Sum(SHA256, data)
	if err != nil {
		t.Fatalf("Sum(SHA256): %v", err)
	}
	want256 := sha256.Sum256(data)
	if !bytes.Equal(got256, want256[:]) {
		t.Errorf("Sum(SHA256) = %x, want %x", got256, want256)
	}

	got512, err := Sum(SHA512, data)
	if err != nil {
		t.Fatalf("Sum(SHA512): %v", err)
	}
	want512 := sha512.Sum512(data)
	if !bytes.Equal(got512, want512[:]) {
		t.Errorf("Sum(SHA512) = %x, want %x", got512, want512)
	}
}

func TestSumReaderMatchesSum(t *testing.T) {
	data := make([]byte, 128*1024)
	for i := range data {
		data[i] = byte(i % 251)
	}
	streamed, err := SumReader(SHA512, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("SumReader: %v", err)
	}
	direct, err := Sum(SHA512, data)
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if !bytes.Equal(streamed, direct) {
		t.Errorf("SumReader = %x, Sum = %x", streamed, direct)
	}
}

func TestStringDeterministic(t *testing.T) {
	first, err := String(SHA256, []byte("determinism"))
	if err != nil {
		t.Fatalf("first String: %v", err)
	}
	second, err := String(SHA256, []byte("determinism"))
	if err != nil {
		t.Fatalf("second String: %v", err)
	}
	if first != second {
		t.Errorf("String not deterministic: %q != %q", first, second)
	}
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		input   string
		want    Algorithm
		wantErr bool
	}{
		{"sha256", SHA256, false},
		{"SHA256", SHA256, false},
		{"SHA-256", SHA256, false},
		{"sha512", SHA512, false},
		{"SHA-512", SHA512, false},
		{"md5", "", true},
		{"", "", true},
	}
	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			got, err := ParseAlgorithm(test.input)
			if test.wantErr {
				if err == nil {
					t.Fatalf("ParseAlgorithm(%q) succeeded, want error", test.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAlgorithm(%q): %v", test.input, err)
			}
			if got != test.want {
				t.Errorf("ParseAlgorithm(%q) = %q, want %q", test.input, got, test.want)
			}
		})
	}
}

func TestParseRoundtrip(t *testing.T) {
	sum, err := Sum(SHA512, []byte("roundtrip"))
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	parsed, err := Parse(SHA512, Format(sum))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !bytes.Equal(parsed, sum) {
		t.Errorf("Parse(Format(sum)) = %x, want %x", parsed, sum)
	}
}

func TestParseRejectsWrongLength(t *testing.T) {
	sum, err := Sum(SHA256, []byte("short"))
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if _, err := Parse(SHA512, Format(sum)); err == nil {
		t.Fatal("Parse accepted a 32-byte digest as SHA512")
	}
	if _, err := Parse(SHA256, "not base64!"); err == nil {
		t.Fatal("Parse accepted invalid base64")
	}
}
