// Package rpcjson registers a JSON codec with grpc-go's pluggable codec
// registry. This environment cannot invoke protoc, so the Supervisor's RPC
// messages are plain Go structs instead of generated protobuf types; this
// codec is the real, supported grpc-go extension point
// (google.golang.org/grpc/encoding.RegisterCodec) that lets a genuine
// grpc.Server/grpc.ClientConn carry them over the wire without fabricating
// protobuf wire-format or descriptor bytes.
package rpcjson

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// Name is the codec name negotiated over the wire in the grpc-content-type
// header, in place of "proto".
const Name = "json"

type codec struct{}

func (codec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (codec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("rpcjson: unmarshal %T: %w", v, err)
	}
	return nil
}

func (codec) Name() string { return Name }

func init() {
	encoding.RegisterCodec(codec{})
}
