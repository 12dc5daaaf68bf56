package oto_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vsariola/hailstone/oto"
)

func TestFloatBufferTo16BitLE(t *testing.T) {
	out := oto.FloatBufferTo16BitLE([]float32{0, 1, -1, 0.5, 2, -2}, nil)
	require.Equal(t, []byte{
		0x00, 0x00,
		0xff, 0x7f,
		0x01, 0x80,
		0xff, 0x3f,
		0xff, 0x7f,
		0x01, 0x80,
	}, out)
}

func TestFloatBufferTo16BitLEAppends(t *testing.T) {
	out := oto.FloatBufferTo16BitLE([]float32{0}, []byte{1, 2})
	require.Equal(t, []byte{1, 2, 0, 0}, out)
}
