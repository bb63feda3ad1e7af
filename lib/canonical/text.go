// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

package canonical

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
)

// CanonicalizeJSONText parses JSON text and re-serializes it without
// insignificant whitespace. With sort set, object keys are ordered at
// every depth per RFC 8785 (JCS): lexicographically by UTF-16 code
// units. Arrays are never reordered and scalars keep their type.
// Numbers are written in the ECMAScript shortest round-trip form in both
// modes, so the output is idempotent: canonicalizing canonical text
// returns it unchanged.
//
// Invalid JSON fails with [failure.JSONMalformed].
func CanonicalizeJSONText(text []byte, sort bool) ([]byte, error) {
	value, err := ParseJSON(text)
	if err != nil {
		return nil, err
	}
	compact, err := Marshal(value)
	if err != nil {
		return nil, err
	}
	switch value.(type) {
	case *Object, []any:
	default:
		// Scalars have nothing to sort.
		return compact, nil
	}
	if !sort {
		return compact, nil
	}
	sorted, err := jsoncanonicalizer.Transform(compact)
	if err != nil {
		return nil, malformed(fmt.Errorf("jcs: %w", err))
	}
	return sorted, nil
}

// Marshal writes a Value tree as compact JSON text in its own key
// order. []byte values (which only arise from [Decode]) are written as
// standard base64 strings.
func Marshal(value any) ([]byte, error) {
	var buffer bytes.Buffer
	if err := writeValue(&buffer, value); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func writeValue(buffer *bytes.Buffer, value any) error {
	switch typed := value.(type) {
	case nil:
		buffer.WriteString("null")
	case bool:
		if typed {
			buffer.WriteString("true")
		} else {
			buffer.WriteString("false")
		}
	case string:
		writeString(buffer, typed)
	case json.Number:
		number, err := parseNumber(typed)
		if err != nil {
			return err
		}
		return writeNumber(buffer, number)
	case float64:
		return writeNumber(buffer, typed)
	case []byte:
		writeString(buffer, base64.StdEncoding.EncodeToString(typed))
	case []any:
		buffer.WriteByte('[')
		for i, element := range typed {
			if i > 0 {
				buffer.WriteByte(',')
			}
			if err := writeValue(buffer, element); err != nil {
				return err
			}
		}
		buffer.WriteByte(']')
	case *Object:
		buffer.WriteByte('{')
		first := true
		for pair := typed.Oldest(); pair != nil; pair = pair.Next() {
			if !first {
				buffer.WriteByte(',')
			}
			first = false
			writeString(buffer, pair.Key)
			buffer.WriteByte(':')
			if err := writeValue(buffer, pair.Value); err != nil {
				return err
			}
		}
		buffer.WriteByte('}')
	default:
		return fmt.Errorf("canonical: cannot marshal %T", value)
	}
	return nil
}

// writeNumber renders non-finite values as null, which is what
// JSON.stringify does with the ±Infinity an overflowing literal parses
// to.
func writeNumber(buffer *bytes.Buffer, number float64) error {
	if math.IsInf(number, 0) || math.IsNaN(number) {
		buffer.WriteString("null")
		return nil
	}
	formatted, err := jsoncanonicalizer.NumberToJSON(number)
	if err != nil {
		return fmt.Errorf("canonical: formatting number: %w", err)
	}
	buffer.WriteString(formatted)
	return nil
}

const hexDigits = "0123456789abcdef"

// writeString escapes like JCS and JSON.stringify: the two-character
// escapes for \b \f \n \r \t " and \, \u00XX for other control
// characters, everything else (including non-ASCII) verbatim.
func writeString(buffer *bytes.Buffer, s string) {
	buffer.WriteByte('"')
	for i := 0; i < len(s); {
		c := s[i]
		if c >= utf8.RuneSelf {
			r, size := utf8.DecodeRuneInString(s[i:])
			buffer.WriteRune(r)
			i += size
			continue
		}
		switch c {
		case '"':
			buffer.WriteString(`\"`)
		case '\\':
			buffer.WriteString(`\\`)
		case '\b':
			buffer.WriteString(`\b`)
		case '\f':
			buffer.WriteString(`\f`)
		case '\n':
			buffer.WriteString(`\n`)
		case '\r':
			buffer.WriteString(`\r`)
		case '\t':
			buffer.WriteString(`\t`)
		default:
			if c < 0x20 {
				buffer.WriteString(`\u00`)
				buffer.WriteByte(hexDigits[c>>4])
				buffer.WriteByte(hexDigits[c&0xF])
			} else {
				buffer.WriteByte(c)
			}
		}
		i++
	}
	buffer.WriteByte('"')
}
