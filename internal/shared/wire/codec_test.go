package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodec_InvokeRequestRoundtrip(t *testing.T) {
	codec := Codec{}

	in := &InvokeRequest{TaskID: "task-1", Job: "sum", Args: []byte{1, 2, 3}}
	data, err := codec.Marshal(in)
	require.NoError(t, err)

	out := new(InvokeRequest)
	require.NoError(t, codec.Unmarshal(data, out))
	require.Equal(t, in, out)
}

func TestCodec_RejectsGarbage(t *testing.T) {
	codec := Codec{}

	out := new(InvokeRequest)
	require.Error(t, codec.Unmarshal([]byte("not gob"), out))
}

func TestEncodeArgs_Roundtrip(t *testing.T) {
	args := []any{42, "hello", 3.14, true, []int{1, 2, 3}}

	data, err := EncodeArgs(args)
	require.NoError(t, err)

	decoded, err := DecodeArgs(data)
	require.NoError(t, err)
	require.Equal(t, args, decoded)
}

func TestEncodeArgs_NilEncodesToEmptyList(t *testing.T) {
	data, err := EncodeArgs(nil)
	require.NoError(t, err)

	decoded, err := DecodeArgs(data)
	require.NoError(t, err)
	require.Empty(t, decoded)
}

func TestEncodeValue_Roundtrip(t *testing.T) {
	data, err := EncodeValue(map[string]any{"count": 7})
	require.NoError(t, err)

	decoded, err := DecodeValue(data)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"count": 7}, decoded)
}

func TestEncodeValue_NilIsEmpty(t *testing.T) {
	data, err := EncodeValue(nil)
	require.NoError(t, err)
	require.Nil(t, data)

	decoded, err := DecodeValue(nil)
	require.NoError(t, err)
	require.Nil(t, decoded)
}

func TestTaskError_ImplementsError(t *testing.T) {
	err := &TaskError{Job: "sum", Message: "division by zero"}
	require.Contains(t, err.Error(), "sum")
	require.Contains(t, err.Error(), "division by zero")
}
