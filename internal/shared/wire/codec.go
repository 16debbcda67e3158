package wire

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"time"
)

// CodecName is the gRPC content subtype for the gob codec.
const CodecName = "gob"

// Codec is a gob-based gRPC message codec. Job arguments and results are
// arbitrary Go values, so the transport keeps gRPC framing but swaps the
// protobuf codec for gob on both ends of the connection.
type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("gob marshal: %w", err)
	}
	return buf.Bytes(), nil
}

func (Codec) Unmarshal(data []byte, v any) error {
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(v); err != nil {
		return fmt.Errorf("gob unmarshal: %w", err)
	}
	return nil
}

func (Codec) Name() string {
	return CodecName
}

func init() {
	for _, v := range []any{
		int(0), int32(0), int64(0), uint(0), uint64(0),
		float32(0), float64(0), "", false,
		[]any{}, []string{}, []int{}, []float64{}, []byte{},
		map[string]any{}, map[string]string{},
		time.Time{}, time.Duration(0),
	} {
		gob.Register(v)
	}
}

// RegisterType makes a user-defined argument or result type transportable
// to remote workers. Both the client and the worker daemon must register it.
func RegisterType(v any) {
	gob.Register(v)
}

// EncodeArgs serializes a positional argument list.
func EncodeArgs(args []any) ([]byte, error) {
	if args == nil {
		args = []any{}
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(args); err != nil {
		return nil, fmt.Errorf("failed to encode arguments: %w", err)
	}
	return buf.Bytes(), nil
}

func DecodeArgs(data []byte) ([]any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var args []any
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&args); err != nil {
		return nil, fmt.Errorf("failed to decode arguments: %w", err)
	}
	return args, nil
}

// EncodeValue serializes a job result. A nil result encodes to nil bytes.
func EncodeValue(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&v); err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return buf.Bytes(), nil
}

func DecodeValue(data []byte) (any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var v any
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}
	return v, nil
}
