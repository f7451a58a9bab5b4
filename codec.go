package orizuru

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec translates a typed payload to and from the opaque bytes stored in a
// queue list. Producers and consumers of the same queue must agree on the
// codec; the queue itself is payload-agnostic and never inspects the bytes.
// Round-trip fidelity (Decode(Encode(v)) == v) is the only requirement.
type Codec[T any] interface {
	Encode(v T) ([]byte, error)
	Decode(data []byte) (T, error)
}

// MsgpackCodec is the default codec. MessagePack gives a compact binary
// encoding and interoperates with the msgpack implementations of other
// languages.
type MsgpackCodec[T any] struct{}

func (MsgpackCodec[T]) Encode(v T) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (MsgpackCodec[T]) Decode(data []byte) (T, error) {
	var v T
	if err := msgpack.Unmarshal(data, &v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// JSONCodec encodes payloads as JSON. Larger on the wire than MessagePack,
// but human-readable when inspecting queue contents directly.
type JSONCodec[T any] struct{}

func (JSONCodec[T]) Encode(v T) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONCodec[T]) Decode(data []byte) (T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// RawCodec passes []byte payloads through untouched, for callers that manage
// their own encoding.
type RawCodec struct{}

func (RawCodec) Encode(v []byte) ([]byte, error) {
	return v, nil
}

func (RawCodec) Decode(data []byte) ([]byte, error) {
	return data, nil
}
