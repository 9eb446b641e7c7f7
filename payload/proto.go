package payload

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Proto implements Codec using Protocol Buffers serialization.
//
// proto.Message values are marshaled directly. Argument maps are carried as
// google.protobuf.Struct, so their values must be JSON-like: nil, bool,
// numbers, string, []byte, []any and map[string]any. Numbers come back as
// float64.
type Proto struct{}

// Encode serializes v to Protocol Buffer bytes.
func (Proto) Encode(v any) ([]byte, error) {
	var msg proto.Message
	switch t := v.(type) {
	case proto.Message:
		msg = t
	case map[string]any:
		s, err := structpb.NewStruct(t)
		if err != nil {
			return nil, errors.Join(ErrEncodeFailure, err)
		}
		msg = s
	default:
		return nil, fmt.Errorf("%w: unsupported type %T", ErrEncodeFailure, v)
	}
	data, err := proto.Marshal(msg)
	if err != nil {
		return nil, errors.Join(ErrEncodeFailure, err)
	}
	return data, nil
}

// Decode deserializes Protocol Buffer bytes into v, which must be a
// proto.Message or a *map[string]any.
func (Proto) Decode(data []byte, v any) error {
	switch t := v.(type) {
	case proto.Message:
		if err := proto.Unmarshal(data, t); err != nil {
			return errors.Join(ErrDecodeFailure, err)
		}
		return nil
	case *map[string]any:
		var s structpb.Struct
		if err := proto.Unmarshal(data, &s); err != nil {
			return errors.Join(ErrDecodeFailure, err)
		}
		*t = s.AsMap()
		return nil
	default:
		return fmt.Errorf("%w: unsupported target %T", ErrDecodeFailure, v)
	}
}

// ContentType returns the MIME type for Protocol Buffers.
func (Proto) ContentType() string {
	return "application/protobuf"
}

// Compile-time check.
var _ Codec = Proto{}

func init() {
	Register(Proto{})
}
