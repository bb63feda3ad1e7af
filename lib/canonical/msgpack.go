// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

package canonical

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// MaxSafeInteger is the largest integer a JSON number can carry without
// loss in an IEEE 754 double (2^53 - 1). Integral numbers within
// ±MaxSafeInteger are encoded as MessagePack integers, everything else
// as float64.
const MaxSafeInteger = 1<<53 - 1

// Encode serializes a Value tree (see [ParseJSON]) as MessagePack.
//
// The output is a pure function of the logical value: integers use the
// smallest MessagePack representation (positive fixint, uint8..uint64,
// negative fixint, int8..int64), non-integral numbers are float64,
// strings use the shortest str header, and object entries are written
// in the Object's own key order. Keys are never sorted.
func Encode(value any) ([]byte, error) {
	var buffer bytes.Buffer
	encoder := msgpack.NewEncoder(&buffer)
	if err := encodeValue(encoder, value); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// EncodeGo is shorthand for [FromGo] followed by [Encode].
func EncodeGo(v any) ([]byte, error) {
	value, err := FromGo(v)
	if err != nil {
		return nil, err
	}
	return Encode(value)
}

func encodeValue(encoder *msgpack.Encoder, value any) error {
	switch typed := value.(type) {
	case nil:
		return encoder.EncodeNil()
	case bool:
		return encoder.EncodeBool(typed)
	case string:
		return encoder.EncodeString(typed)
	case json.Number:
		number, err := parseNumber(typed)
		if err != nil {
			return err
		}
		return encodeNumber(encoder, number)
	case float64:
		return encodeNumber(encoder, typed)
	case []byte:
		return encoder.EncodeBytes(typed)
	case []any:
		if err := encoder.EncodeArrayLen(len(typed)); err != nil {
			return err
		}
		for _, element := range typed {
			if err := encodeValue(encoder, element); err != nil {
				return err
			}
		}
		return nil
	case *Object:
		if err := encoder.EncodeMapLen(typed.Len()); err != nil {
			return err
		}
		for pair := typed.Oldest(); pair != nil; pair = pair.Next() {
			if err := encoder.EncodeString(pair.Key); err != nil {
				return err
			}
			if err := encodeValue(encoder, pair.Value); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("canonical: cannot encode %T", value)
	}
}

func encodeNumber(encoder *msgpack.Encoder, number float64) error {
	if number == math.Trunc(number) && math.Abs(number) <= MaxSafeInteger {
		return encoder.EncodeInt(int64(number))
	}
	return encoder.EncodeFloat64(number)
}

// parseNumber converts a JSON number literal to float64. Literals that
// overflow a double become ±Inf, matching ECMAScript.
func parseNumber(number json.Number) (float64, error) {
	parsed, err := strconv.ParseFloat(string(number), 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return parsed, nil
		}
		return 0, malformed(err)
	}
	return parsed, nil
}

// Decode parses MessagePack produced by [Encode] (or any MessagePack
// using nil, bool, integer, float, str, bin, array and string-keyed map
// types) back into a Value tree. Numbers come back as json.Number and
// bin values as []byte.
func Decode(data []byte) (any, error) {
	// bytes.Reader is an io.ByteScanner, so the decoder reads from it
	// directly and reader.Len() is exactly what it left unconsumed.
	reader := bytes.NewReader(data)
	decoder := msgpack.NewDecoder(reader)
	value, err := decodeValue(decoder)
	if err != nil {
		return nil, fmt.Errorf("canonical: decoding msgpack: %w", err)
	}
	if reader.Len() > 0 {
		return nil, fmt.Errorf("canonical: %d trailing bytes after msgpack value", reader.Len())
	}
	return value, nil
}

func decodeValue(decoder *msgpack.Decoder) (any, error) {
	code, err := decoder.PeekCode()
	if err != nil {
		return nil, err
	}

	switch {
	case code == msgpcode.Nil:
		return nil, decoder.DecodeNil()
	case code == msgpcode.True || code == msgpcode.False:
		return decoder.DecodeBool()
	case msgpcode.IsFixedNum(code), code == msgpcode.Int8, code == msgpcode.Int16,
		code == msgpcode.Int32, code == msgpcode.Int64:
		n, err := decoder.DecodeInt64()
		if err != nil {
			return nil, err
		}
		return json.Number(strconv.FormatInt(n, 10)), nil
	case code == msgpcode.Uint8, code == msgpcode.Uint16, code == msgpcode.Uint32, code == msgpcode.Uint64:
		n, err := decoder.DecodeUint64()
		if err != nil {
			return nil, err
		}
		return json.Number(strconv.FormatUint(n, 10)), nil
	case code == msgpcode.Float, code == msgpcode.Double:
		f, err := decoder.DecodeFloat64()
		if err != nil {
			return nil, err
		}
		return json.Number(strconv.FormatFloat(f, 'g', -1, 64)), nil
	case msgpcode.IsString(code):
		return decoder.DecodeString()
	case msgpcode.IsBin(code):
		return decoder.DecodeBytes()
	case msgpcode.IsFixedArray(code), code == msgpcode.Array16, code == msgpcode.Array32:
		length, err := decoder.DecodeArrayLen()
		if err != nil {
			return nil, err
		}
		array := make([]any, 0, max(length, 0))
		for range length {
			element, err := decodeValue(decoder)
			if err != nil {
				return nil, err
			}
			array = append(array, element)
		}
		return array, nil
	case msgpcode.IsFixedMap(code), code == msgpcode.Map16, code == msgpcode.Map32:
		length, err := decoder.DecodeMapLen()
		if err != nil {
			return nil, err
		}
		object := NewObject()
		for range length {
			key, err := decoder.DecodeString()
			if err != nil {
				return nil, fmt.Errorf("map key: %w", err)
			}
			value, err := decodeValue(decoder)
			if err != nil {
				return nil, err
			}
			object.Set(key, value)
		}
		return object, nil
	default:
		return nil, fmt.Errorf("unsupported msgpack code 0x%02x", code)
	}
}
