package rpc

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// Codec names ZITADEL accepts on the wire.
const (
	CodecProto = "proto"
	CodecJSON  = "json"
)

// Codec matches both connect.Codec and grpc's encoding.Codec, so one value
// can serve either transport.
type Codec interface {
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// CodecFor returns the codec registered under name, or ProtoCodec for any
// name it does not know.
func CodecFor(name string) Codec {
	if name == CodecJSON {
		return JSONCodec{}
	}
	return ProtoCodec{}
}

// ProtoCodec is the binary protobuf encoding.
type ProtoCodec struct{}

func (ProtoCodec) Name() string { return CodecProto }

func (ProtoCodec) Marshal(v any) ([]byte, error) {
	m, err := message(v)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(m)
}

func (ProtoCodec) Unmarshal(data []byte, v any) error {
	m, err := message(v)
	if err != nil {
		return err
	}
	if err := proto.Unmarshal(data, m); err != nil {
		return fmt.Errorf("proto codec: %w", err)
	}
	return nil
}

// JSONCodec is the canonical protobuf JSON mapping. Unknown fields in
// replies are dropped so newer servers stay readable.
type JSONCodec struct{}

func (JSONCodec) Name() string { return CodecJSON }

func (JSONCodec) Marshal(v any) ([]byte, error) {
	m, err := message(v)
	if err != nil {
		return nil, err
	}
	return protojson.Marshal(m)
}

func (JSONCodec) Unmarshal(data []byte, v any) error {
	m, err := message(v)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	if err := (protojson.UnmarshalOptions{DiscardUnknown: true}).Unmarshal(data, m); err != nil {
		return fmt.Errorf("json codec: %w", err)
	}
	return nil
}

func message(v any) (proto.Message, error) {
	m, ok := v.(proto.Message)
	if !ok {
		return nil, fmt.Errorf("rpc: %T is not a protobuf message", v)
	}
	return m, nil
}
