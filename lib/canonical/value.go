// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

package canonical

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/certpack/certpack/lib/failure"
)

// Object is a JSON object that remembers the order in which its keys
// appeared in the source text.
type Object = orderedmap.OrderedMap[string, any]

// NewObject returns an empty Object.
func NewObject() *Object {
	return orderedmap.New[string, any]()
}

// ParseJSON parses JSON text into a Value tree, preserving object key
// order. A Value is one of:
//
//	nil, bool, string, json.Number, []any, *Object
//
// Repeated keys keep the position of their first occurrence and the
// value of their last, which is what ECMAScript JSON.parse does. Any
// syntax error, an empty input, or trailing content after the top-level
// value fails with [failure.JSONMalformed].
func ParseJSON(data []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	value, err := parseValue(decoder)
	if err != nil {
		return nil, malformed(err)
	}
	if token, err := decoder.Token(); err != io.EOF {
		if err == nil {
			err = fmt.Errorf("unexpected %v after top-level value", token)
		}
		return nil, malformed(err)
	}
	return value, nil
}

func parseValue(decoder *json.Decoder) (any, error) {
	token, err := decoder.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	delimiter, isDelimiter := token.(json.Delim)
	if !isDelimiter {
		// bool, string, json.Number, or nil.
		return token, nil
	}

	switch delimiter {
	case '{':
		object := NewObject()
		for decoder.More() {
			keyToken, err := decoder.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyToken.(string)
			if !ok {
				return nil, fmt.Errorf("object key is %T, not a string", keyToken)
			}
			value, err := parseValue(decoder)
			if err != nil {
				return nil, err
			}
			object.Set(key, value)
		}
		if err := expectDelimiter(decoder, '}'); err != nil {
			return nil, err
		}
		return object, nil

	case '[':
		array := []any{}
		for decoder.More() {
			value, err := parseValue(decoder)
			if err != nil {
				return nil, err
			}
			array = append(array, value)
		}
		if err := expectDelimiter(decoder, ']'); err != nil {
			return nil, err
		}
		return array, nil

	default:
		return nil, fmt.Errorf("unexpected delimiter %q", rune(delimiter))
	}
}

func expectDelimiter(decoder *json.Decoder, want json.Delim) error {
	token, err := decoder.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	if token != want {
		return fmt.Errorf("expected %q, got %v", rune(want), token)
	}
	return nil
}

// FromGo converts a Go value into a Value tree.
//
// The conversion goes through encoding/json, so it follows encoding/json
// rules: struct fields keep declaration order, map[string]T keys are
// sorted (Go maps have no order to preserve), and an *Object or
// json.RawMessage keeps the order it already has. Values that
// encoding/json cannot represent fail with [failure.JSONMalformed].
func FromGo(v any) (any, error) {
	switch typed := v.(type) {
	case json.RawMessage:
		return ParseJSON(typed)
	case *Object:
		return typed, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, malformed(err)
	}
	return ParseJSON(data)
}

func malformed(err error) error {
	return &failure.Error{
		Code:    failure.JSONMalformed,
		Details: err.Error(),
		Err:     err,
	}
}
