// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

// Package base45 implements the Base45 data encoding of RFC 9285 on top
// of github.com/dasio/base45.
//
// Base45 packs two bytes into three characters drawn from the 45
// characters that QR codes encode in alphanumeric mode. A trailing odd
// byte becomes two characters. Encoded text is about 50% longer than the
// input, compared to 33% for base64, but survives QR alphanumeric mode
// which is far denser than byte mode.
package base45

import (
	"fmt"

	dasio "github.com/dasio/base45"
)

// Alphabet is the RFC 9285 character table. The index of a character is
// its value.
const Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"

// CorruptInputError reports text that is not valid Base45. Offset is
// the position of the offending group when it is known, -1 otherwise.
type CorruptInputError struct {
	Offset int
	Reason string
	Err    error
}

func (e *CorruptInputError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("base45: illegal data: %s", e.Reason)
	}
	return fmt.Sprintf("base45: illegal data at input byte %d: %s", e.Offset, e.Reason)
}

func (e *CorruptInputError) Unwrap() error { return e.Err }

// EncodedLen returns the length of the encoding of n source bytes.
func EncodedLen(n int) int {
	return n/2*3 + n%2*2
}

// Encode returns the Base45 encoding of src.
func Encode(src []byte) string {
	return dasio.EncodeToString(src)
}

// Decode returns the bytes represented by the Base45 string s. Input is
// case sensitive: lowercase letters are not part of the alphabet. A
// trailing two-character group above 255 is rejected.
func Decode(s string) ([]byte, error) {
	if len(s)%3 == 2 {
		if err := checkFinalPair(s[len(s)-2:], len(s)-2); err != nil {
			return nil, err
		}
	}
	decoded, err := dasio.DecodeString(s)
	if err != nil {
		return nil, &CorruptInputError{Offset: -1, Reason: err.Error(), Err: err}
	}
	return decoded, nil
}

func checkFinalPair(pair string, offset int) error {
	low, high := indexOf(pair[0]), indexOf(pair[1])
	if low < 0 || high < 0 {
		// Left to the decoder, which names the character.
		return nil
	}
	if low+high*len(Alphabet) > 0xFF {
		return &CorruptInputError{Offset: offset, Reason: "pair exceeds 8 bits"}
	}
	return nil
}

func indexOf(c byte) int {
	for i := 0; i < len(Alphabet); i++ {
		if Alphabet[i] == c {
			return i
		}
	}
	return -1
}
