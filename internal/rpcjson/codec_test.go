package rpcjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
)

type sample struct {
	Name string `json:"name"`
	N    int    `json:"n"`
}

func TestCodecRegisteredByName(t *testing.T) {
	c := encoding.GetCodec(Name)
	require.NotNil(t, c)
	assert.Equal(t, Name, c.Name())
}

func TestCodecMarshalUnmarshalRoundTrip(t *testing.T) {
	c := encoding.GetCodec(Name)
	in := sample{Name: "noble", N: 3}

	data, err := c.Marshal(in)
	require.NoError(t, err)

	var out sample
	require.NoError(t, c.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestCodecUnmarshalEmptyIsNoOp(t *testing.T) {
	c := encoding.GetCodec(Name)
	var out sample
	require.NoError(t, c.Unmarshal(nil, &out))
	assert.Zero(t, out)
}
