package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArrayReverse(t *testing.T) {
	arr := []byte{0x01, 0x02, 0x03, 0x04}
	have := ArrayReverse(arr)
	require.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, have)
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, arr, "source must not be modified")

	require.Equal(t, []byte{0x05, 0x04, 0x03, 0x02, 0x01}, ArrayReverse([]byte{1, 2, 3, 4, 5}))
	require.Equal(t, []byte{0x01}, ArrayReverse([]byte{0x01}))
	require.Equal(t, []byte{}, ArrayReverse([]byte{}))
}
