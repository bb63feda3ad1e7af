// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

package envelope

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// ProtocolVersion is the envelope protocol generation encoded in the
// high nibble of the version field.
const ProtocolVersion = 2

// Version field values.
const (
	VersionSigned  = ProtocolVersion<<4 | 0x02
	VersionChained = ProtocolVersion<<4 | 0x03
)

// Type marker values.
const (
	TypeChained = 0x00
	TypeSigned  = 0xEE
)

const (
	signedFields  = 5
	chainedFields = 6
)

// Envelope is a decoded UPP. The zero value is not useful; build one
// with [Decode], [NewSigned], or [NewChained].
type Envelope struct {
	version       int64
	uuid          []byte
	prevSignature []byte
	chained       bool
	typ           int64
	payload       []byte
	signature     []byte
}

// NewSigned returns a five-field envelope.
func NewSigned(uuid []byte, typ int64, payload, signature []byte) *Envelope {
	return &Envelope{
		version:   VersionSigned,
		uuid:      uuid,
		typ:       typ,
		payload:   payload,
		signature: signature,
	}
}

// NewChained returns a six-field envelope that links to the previous
// envelope's signature.
func NewChained(uuid, prevSignature []byte, typ int64, payload, signature []byte) *Envelope {
	return &Envelope{
		version:       VersionChained,
		uuid:          uuid,
		prevSignature: prevSignature,
		chained:       true,
		typ:           typ,
		payload:       payload,
		signature:     signature,
	}
}

// Version returns the version field, [VersionSigned] or
// [VersionChained] for envelopes from the signing service.
func (e *Envelope) Version() int64 { return e.version }

// UUID returns the identity the envelope was signed for.
func (e *Envelope) UUID() []byte { return e.uuid }

// PrevSignature returns the previous envelope's signature, or nil for a
// signed envelope.
func (e *Envelope) PrevSignature() []byte { return e.prevSignature }

func (e *Envelope) Type() int64 { return e.typ }

func (e *Envelope) Payload() []byte { return e.payload }

func (e *Envelope) Signature() []byte { return e.signature }

// IsChained reports whether the envelope has the six-field chained shape.
func (e *Envelope) IsChained() bool { return e.chained }

// FieldCount is the length of the positional wire form.
func (e *Envelope) FieldCount() int {
	if e.chained {
		return chainedFields
	}
	return signedFields
}

// WithPayload returns a copy of e whose type marker is typ and whose
// payload is payload. Every other field is shared with e.
func (e *Envelope) WithPayload(typ int64, payload []byte) *Envelope {
	spliced := *e
	spliced.typ = typ
	spliced.payload = payload
	return &spliced
}

// Decode parses a MessagePack-encoded envelope. Anything other than a
// single five- or six-element array of the expected field types is an
// error, including trailing bytes.
func Decode(data []byte) (*Envelope, error) {
	reader := bytes.NewReader(data)
	var envelope Envelope
	if err := msgpack.NewDecoder(reader).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("envelope: %w", err)
	}
	if reader.Len() > 0 {
		return nil, fmt.Errorf("envelope: %d trailing bytes", reader.Len())
	}
	return &envelope, nil
}

// Encode serializes the envelope in its positional wire form.
func (e *Envelope) Encode() ([]byte, error) {
	var buffer bytes.Buffer
	if err := msgpack.NewEncoder(&buffer).Encode(e); err != nil {
		return nil, fmt.Errorf("envelope: %w", err)
	}
	return buffer.Bytes(), nil
}

// Splice decodes data, replaces the payload (second-to-last field) with
// payload and the type marker (third-to-last field) with [TypeSigned],
// and re-encodes. Field count, order, and all other field values are
// unchanged.
func Splice(data, payload []byte) ([]byte, error) {
	envelope, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return envelope.WithPayload(TypeSigned, payload).Encode()
}

var (
	_ msgpack.CustomEncoder = (*Envelope)(nil)
	_ msgpack.CustomDecoder = (*Envelope)(nil)
)

// EncodeMsgpack implements msgpack.CustomEncoder.
func (e *Envelope) EncodeMsgpack(encoder *msgpack.Encoder) error {
	if err := encoder.EncodeArrayLen(e.FieldCount()); err != nil {
		return err
	}
	if err := encoder.EncodeInt(e.version); err != nil {
		return err
	}
	if err := encodeBin(encoder, e.uuid); err != nil {
		return err
	}
	if e.chained {
		if err := encodeBin(encoder, e.prevSignature); err != nil {
			return err
		}
	}
	if err := encoder.EncodeInt(e.typ); err != nil {
		return err
	}
	if err := encodeBin(encoder, e.payload); err != nil {
		return err
	}
	return encodeBin(encoder, e.signature)
}

// encodeBin always writes a bin header. msgpack.Encoder.EncodeBytes
// writes nil for a nil slice, which would change the field's type.
func encodeBin(encoder *msgpack.Encoder, data []byte) error {
	if data == nil {
		data = []byte{}
	}
	return encoder.EncodeBytes(data)
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (e *Envelope) DecodeMsgpack(decoder *msgpack.Decoder) error {
	length, err := decoder.DecodeArrayLen()
	if err != nil {
		return fmt.Errorf("reading array header: %w", err)
	}
	switch length {
	case signedFields:
		e.chained = false
	case chainedFields:
		e.chained = true
	default:
		return fmt.Errorf("envelope has %d fields, want %d or %d", length, signedFields, chainedFields)
	}

	if e.version, err = decoder.DecodeInt64(); err != nil {
		return fmt.Errorf("version: %w", err)
	}
	if e.uuid, err = decoder.DecodeBytes(); err != nil {
		return fmt.Errorf("uuid: %w", err)
	}
	if e.chained {
		if e.prevSignature, err = decoder.DecodeBytes(); err != nil {
			return fmt.Errorf("previous signature: %w", err)
		}
	} else {
		e.prevSignature = nil
	}
	if e.typ, err = decoder.DecodeInt64(); err != nil {
		return fmt.Errorf("type: %w", err)
	}
	if e.payload, err = decoder.DecodeBytes(); err != nil {
		return fmt.Errorf("payload: %w", err)
	}
	if e.signature, err = decoder.DecodeBytes(); err != nil {
		return fmt.Errorf("signature: %w", err)
	}
	return nil
}
