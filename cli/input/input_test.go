package input

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/term"
)

func setTerminal(t *testing.T, in string) {
	Terminal = term.NewTerminal(ReadWriter{
		Reader: bytes.NewBufferString(in),
		Writer: io.Discard,
	}, "")
	t.Cleanup(func() { Terminal = nil })
}

func TestReadLine(t *testing.T) {
	setTerminal(t, "main\r")
	s, err := ReadLine("chain> ")
	require.NoError(t, err)
	require.Equal(t, "main", s)
}

func TestReadSecret(t *testing.T) {
	setTerminal(t, "KxhEDBQyyEFymvfJD96q8stMbJMbZUb6D1PmXqBWZDU2WvbvVs9o\r")
	s, err := ReadSecret("WIF> ")
	require.NoError(t, err)
	require.Equal(t, "KxhEDBQyyEFymvfJD96q8stMbJMbZUb6D1PmXqBWZDU2WvbvVs9o", s)
}
