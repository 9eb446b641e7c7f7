// Package payload encodes and decodes hook arguments.
//
// Codecs turn an arguments map into bytes and back. They are used to take
// immutable snapshots of a running chain (see hook.Recorder) and to move
// arguments across process boundaries owned by the caller.
//
// Usage:
//
//	// JSON (default)
//	rec := hook.NewRecorder(payload.JSON{})
//
//	// MessagePack, compact binary
//	rec := hook.NewRecorder(payload.MsgPack{})
//
//	// Protocol Buffers, arguments carried as google.protobuf.Struct
//	rec := hook.NewRecorder(payload.Proto{})
package payload

import "errors"

// Codec errors
var (
	ErrEncodeFailure = errors.New("failed to encode payload")
	ErrDecodeFailure = errors.New("failed to decode payload")
)

// Codec encodes/decodes argument maps.
// Implementations must be safe for concurrent use.
type Codec interface {
	// Encode serializes v to bytes.
	Encode(v any) ([]byte, error)

	// Decode deserializes bytes into v.
	// v must be a pointer.
	Decode(data []byte, v any) error

	// ContentType returns the MIME type (e.g., "application/json").
	ContentType() string
}

// Default returns the default codec (JSON).
func Default() Codec {
	return JSON{}
}
